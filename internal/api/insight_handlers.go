package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/service"
)

func (s *Server) registerInsightRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getInsightsDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/insights/dashboard",
		Summary:     "Insights dashboard",
		Description: "Returns velocity, forecasts, winning combo, goals and chart series in one response",
		Tags:        []string{"Insights"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetDashboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReadingVelocity",
		Method:      http.MethodGet,
		Path:        "/api/v1/insights/velocity",
		Summary:     "Reading velocity",
		Description: "Returns pages per day, weekly total and streaks for a window",
		Tags:        []string{"Insights"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetVelocity)

	huma.Register(s.api, huma.Operation{
		OperationID: "getFinishForecasts",
		Method:      http.MethodGet,
		Path:        "/api/v1/insights/forecasts",
		Summary:     "Finish forecasts",
		Description: "Estimates when each book being read will be finished",
		Tags:        []string{"Insights"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetForecasts)

	huma.Register(s.api, huma.Operation{
		OperationID: "getWinningCombo",
		Method:      http.MethodGet,
		Path:        "/api/v1/insights/combo",
		Summary:     "Winning combo",
		Description: "Profiles the pacing, moods, subject and format of the reader's favourite books",
		Tags:        []string{"Insights"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCombo)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCommunityInsight",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/community",
		Summary:     "Community insight",
		Description: "Summarizes the moods and pacing other readers tagged a book with",
		Tags:        []string{"Insights"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCommunity)
}

// === DTOs ===

// WindowInput selects the span of history an insight covers.
type WindowInput struct {
	Window string `query:"window" enum:"last30,ytd,all" doc:"Insight window (default last30)"`
}

// DashboardOutput wraps the dashboard for Huma.
type DashboardOutput struct {
	Body domain.Dashboard
}

// VelocityOutput wraps velocity figures for Huma.
type VelocityOutput struct {
	Body domain.Velocity
}

// ForecastsOutput wraps forecasts for Huma.
type ForecastsOutput struct {
	Body service.ForecastResult
}

// ComboResponse reports the winning combo, if there is one yet.
type ComboResponse struct {
	Found bool                 `json:"found" doc:"False until a finished book is rated 4.5 or higher"`
	Combo *domain.WinningCombo `json:"combo,omitempty" doc:"The winning combo"`
}

// ComboOutput wraps the combo response for Huma.
type ComboOutput struct {
	Body ComboResponse
}

// CommunityInput identifies a book.
type CommunityInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// CommunityOutput wraps the community insight for Huma.
type CommunityOutput struct {
	Body domain.CommunityInsight
}

// === Handlers ===

func (s *Server) handleGetDashboard(ctx context.Context, input *WindowInput) (*DashboardOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	d, err := s.services.Insights.Dashboard(ctx, userID, domain.InsightWindow(input.Window))
	if err != nil {
		return nil, err
	}
	return &DashboardOutput{Body: *d}, nil
}

func (s *Server) handleGetVelocity(ctx context.Context, input *WindowInput) (*VelocityOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	v, err := s.services.Insights.Velocity(ctx, userID, domain.InsightWindow(input.Window))
	if err != nil {
		return nil, err
	}
	return &VelocityOutput{Body: *v}, nil
}

func (s *Server) handleGetForecasts(ctx context.Context, _ *struct{}) (*ForecastsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	res, err := s.services.Insights.Forecasts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ForecastsOutput{Body: *res}, nil
}

func (s *Server) handleGetCombo(ctx context.Context, _ *struct{}) (*ComboOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	combo, found, err := s.services.Insights.Combo(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ComboOutput{Body: ComboResponse{Found: found, Combo: combo}}, nil
}

func (s *Server) handleGetCommunity(ctx context.Context, input *CommunityInput) (*CommunityOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	c, err := s.services.Insights.Community(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &CommunityOutput{Body: *c}, nil
}
