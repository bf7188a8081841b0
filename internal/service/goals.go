package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/errors"
	"github.com/shelfnote/shelfnote-server/internal/id"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

// GoalService sets and removes yearly reading goals. Progress is computed
// by InsightsService.GoalProgress.
type GoalService struct {
	store  store.Store
	logger *slog.Logger
	clock  clock
}

// NewGoalService creates a goal service. loc decides the reader's
// calendar day; nil means UTC.
func NewGoalService(s store.Store, loc *time.Location, logger *slog.Logger) *GoalService {
	return &GoalService{store: s, logger: logger, clock: newClock(loc)}
}

// SetGoalInput describes a goal to create or replace.
type SetGoalInput struct {
	Type       domain.GoalType
	Target     int
	Visibility domain.GoalVisibility
}

// Set creates the goal for (user, type, year) or replaces its target and
// visibility.
func (s *GoalService) Set(ctx context.Context, userID string, year int, in SetGoalInput) (*domain.ReadingGoal, error) {
	goalID, err := id.Generate(id.PrefixGoal)
	if err != nil {
		return nil, fmt.Errorf("generate goal ID: %w", err)
	}
	now := s.clock.now().UTC()
	goal := &domain.ReadingGoal{
		ID:         goalID,
		UserID:     userID,
		Type:       in.Type,
		Target:     in.Target,
		Year:       year,
		Visibility: in.Visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}
	if err := s.store.UpsertGoal(ctx, goal); err != nil {
		return nil, fmt.Errorf("save goal: %w", err)
	}

	s.logger.Info("reading goal set",
		"user_id", userID,
		"type", goal.Type,
		"year", year,
		"target", goal.Target,
	)
	return goal, nil
}

// Delete removes one goal.
func (s *GoalService) Delete(ctx context.Context, userID string, year int, goalType domain.GoalType) error {
	if !goalType.Valid() {
		return errors.Validationf("unknown goal type %q", goalType)
	}
	if err := s.store.DeleteGoal(ctx, userID, year, goalType); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("no %s goal for %d", goalType, year)
		}
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}
