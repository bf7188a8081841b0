package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/service"
)

func (s *Server) registerGoalRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getGoals",
		Method:      http.MethodGet,
		Path:        "/api/v1/goals/{year}",
		Summary:     "Get goal progress",
		Description: "Returns every goal for the year with its current progress",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetGoals)

	huma.Register(s.api, huma.Operation{
		OperationID: "setGoal",
		Method:      http.MethodPut,
		Path:        "/api/v1/goals/{year}",
		Summary:     "Set goal",
		Description: "Creates or replaces the goal of the given type for the year",
		Tags:        []string{"Goals"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSetGoal)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteGoal",
		Method:        http.MethodDelete,
		Path:          "/api/v1/goals/{year}/{type}",
		Summary:       "Delete goal",
		Tags:          []string{"Goals"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteGoal)
}

// YearInput identifies a goal year.
type YearInput struct {
	Year int `path:"year" minimum:"1900" maximum:"9999" doc:"Calendar year"`
}

// GoalsResponse lists goal progress for a year.
type GoalsResponse struct {
	Year  int                   `json:"year"`
	Goals []domain.GoalProgress `json:"goals"`
}

// GoalsOutput wraps goal progress for Huma.
type GoalsOutput struct {
	Body GoalsResponse
}

// SetGoalRequest is the request body for setting a goal.
type SetGoalRequest struct {
	Type       string `json:"type" validate:"required,oneof=books pages genres consistency" doc:"What the goal counts"`
	Target     int    `json:"target" validate:"gt=0" doc:"Target count"`
	Visibility string `json:"visibility,omitempty" validate:"omitempty,oneof=private friends public" doc:"Defaults to private"`
}

// SetGoalInput wraps the goal request for Huma.
type SetGoalInput struct {
	Year int `path:"year" minimum:"1900" maximum:"9999" doc:"Calendar year"`
	Body SetGoalRequest
}

// GoalOutput wraps a goal for Huma.
type GoalOutput struct {
	Body domain.ReadingGoal
}

// DeleteGoalInput identifies a goal.
type DeleteGoalInput struct {
	Year int    `path:"year" doc:"Calendar year"`
	Type string `path:"type" doc:"Goal type"`
}

func (s *Server) handleGetGoals(ctx context.Context, input *YearInput) (*GoalsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	progress, err := s.services.Insights.GoalProgress(ctx, userID, input.Year)
	if err != nil {
		return nil, err
	}
	if progress == nil {
		progress = []domain.GoalProgress{}
	}
	return &GoalsOutput{Body: GoalsResponse{Year: input.Year, Goals: progress}}, nil
}

func (s *Server) handleSetGoal(ctx context.Context, input *SetGoalInput) (*GoalOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	goal, err := s.services.Goals.Set(ctx, userID, input.Year, service.SetGoalInput{
		Type:       domain.GoalType(input.Body.Type),
		Target:     input.Body.Target,
		Visibility: domain.GoalVisibility(input.Body.Visibility),
	})
	if err != nil {
		return nil, err
	}
	return &GoalOutput{Body: *goal}, nil
}

func (s *Server) handleDeleteGoal(ctx context.Context, input *DeleteGoalInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Goals.Delete(ctx, userID, input.Year, domain.GoalType(input.Type)); err != nil {
		return nil, err
	}
	return nil, nil
}
