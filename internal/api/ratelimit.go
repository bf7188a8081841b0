package api

import (
	"log/slog"
	"net"
	"net/http"

	domainerrors "github.com/shelfnote/shelfnote-server/internal/errors"
	"github.com/shelfnote/shelfnote-server/internal/http/response"
	"github.com/shelfnote/shelfnote-server/internal/ratelimit"
)

// rateLimitMiddleware limits each caller: authenticated requests by user ID,
// anonymous ones by client IP. Health and metrics probes are not limited.
// Returns 429 Too Many Requests when the limit is exceeded.
func rateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
				next.ServeHTTP(w, r)
				return
			}

			key := "ip:" + clientIP(r)
			if userID, err := GetUserID(r.Context()); err == nil {
				key = "user:" + userID
			}

			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded",
					"key", key,
					"path", r.URL.Path,
				)
				w.Header().Set("Retry-After", "1")
				response.HandleError(w, domainerrors.RateLimited("Too many requests. Please try again later."), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. middleware.RealIP has already
// applied any X-Forwarded-For or X-Real-IP header.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
