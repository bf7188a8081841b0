// Package api serves the Shelfnote HTTP API: huma operations on a chi router,
// every body wrapped in the response envelope.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shelfnote/shelfnote-server/internal/auth"
	domainerrors "github.com/shelfnote/shelfnote-server/internal/errors"
	"github.com/shelfnote/shelfnote-server/internal/http/response"
	"github.com/shelfnote/shelfnote-server/internal/metrics"
	"github.com/shelfnote/shelfnote-server/internal/ratelimit"
	"github.com/shelfnote/shelfnote-server/internal/store"
	"github.com/shelfnote/shelfnote-server/internal/validation"
)

// SearchIndex is the part of the search index the health check looks at.
type SearchIndex interface {
	DocumentCount() (uint64, error)
}

// Options tunes the HTTP surface.
type Options struct {
	AllowedOrigins []string
	// RequestsPerSecond and Burst bound each caller. Zero disables limiting.
	RequestsPerSecond float64
	Burst             int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store     store.Store
	services  *Services
	tokens    *auth.TokenService
	index     SearchIndex
	router    *chi.Mux
	api       huma.API
	validator *validation.Validator
	limiter   *ratelimit.KeyedRateLimiter
	logger    *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured. index may
// be nil when local search is disabled.
func NewServer(st store.Store, services *Services, tokens *auth.TokenService, index SearchIndex, opts Options, logger *slog.Logger) *Server {
	s := &Server{
		store:     st,
		services:  services,
		tokens:    tokens,
		index:     index,
		router:    chi.NewRouter(),
		validator: validation.New(),
		logger:    logger,
	}
	if opts.RequestsPerSecond > 0 {
		s.limiter = ratelimit.New(opts.RequestsPerSecond, max(opts.Burst, 1))
	}

	s.setupMiddleware(opts)
	s.api = humachi.New(s.router, newHumaConfig())
	RegisterErrorHandler(logger)
	s.setupRoutes()

	return s
}

func newHumaConfig() huma.Config {
	cfg := huma.DefaultConfig("Shelfnote API", "1.0.0")
	cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	// No $schema links: bodies are wrapped in the envelope.
	cfg.CreateHooks = nil
	cfg.Transformers = append(cfg.Transformers, EnvelopeTransformer)
	return cfg
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases the rate limiter.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) setupMiddleware(opts Options) {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: opts.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))
	s.router.Use(metrics.Middleware)
	s.router.Use(authMiddleware(s.tokens))
	if s.limiter != nil {
		s.router.Use(rateLimitMiddleware(s.limiter, s.logger))
	}
}

func (s *Server) setupRoutes() {
	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.HandleError(w, domainerrors.NotFoundf("no route for %s", r.URL.Path), s.logger)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.HandleError(w, domainerrors.Validationf("method %s not allowed on %s", r.Method, r.URL.Path), s.logger)
	})
	s.router.Handle("/metrics", metrics.Handler())

	s.registerHealthRoutes()
	s.registerInsightRoutes()
	s.registerBookRoutes()
	s.registerLibraryRoutes()
	s.registerSessionRoutes()
	s.registerGoalRoutes()
}
