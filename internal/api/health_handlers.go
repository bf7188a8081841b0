package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

// Component statuses, from best to worst.
const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Reports the database and local search index status",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Time the probe took"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Worst component status"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

// probe checks one component. failStatus is reported when it returns an error.
type probe struct {
	name       string
	failStatus string
	run        func(ctx context.Context) (string, error)
}

func (s *Server) probes() []probe {
	return []probe{
		{name: "database", failStatus: statusUnhealthy, run: s.probeDatabase},
		// Local search is optional; losing it only degrades the server.
		{name: "search", failStatus: statusDegraded, run: s.probeSearchIndex},
	}
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	resp := HealthResponse{Status: statusHealthy, Components: make(map[string]ComponentHealth)}
	for _, p := range s.probes() {
		c := p.check(ctx)
		resp.Components[p.name] = c
		if severity(c.Status) > severity(resp.Status) {
			resp.Status = c.Status
		}
	}
	return &HealthOutput{Body: resp}, nil
}

func (p probe) check(ctx context.Context) ComponentHealth {
	start := time.Now()
	msg, err := p.run(ctx)
	switch {
	case errors.Is(err, errNotConfigured):
		return ComponentHealth{Status: statusDegraded, Message: p.name + " not configured"}
	case err != nil:
		return ComponentHealth{Status: p.failStatus, Latency: time.Since(start).String(), Message: p.name + " unavailable"}
	}
	return ComponentHealth{Status: statusHealthy, Latency: time.Since(start).String(), Message: msg}
}

var errNotConfigured = errors.New("not configured")

func severity(status string) int {
	switch status {
	case statusUnhealthy:
		return 2
	case statusDegraded:
		return 1
	default:
		return 0
	}
}

func (s *Server) probeDatabase(ctx context.Context) (string, error) {
	if s.store == nil {
		return "", errNotConfigured
	}
	return "", s.store.Ping(ctx)
}

func (s *Server) probeSearchIndex(context.Context) (string, error) {
	if s.index == nil {
		return "", errNotConfigured
	}
	count, err := s.index.DocumentCount()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d books indexed", count), nil
}
