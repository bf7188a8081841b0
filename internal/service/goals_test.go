package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/errors"
	"github.com/shelfnote/shelfnote-server/internal/logger"
)

func TestGoalService_Set(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	goal, err := svc.goals.Set(ctx, "user-1", 2026, SetGoalInput{Type: domain.GoalBooks, Target: 24})
	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPrivate, goal.Visibility)

	_, err = svc.goals.Set(ctx, "user-1", 2026, SetGoalInput{
		Type:       domain.GoalBooks,
		Target:     30,
		Visibility: domain.VisibilityPublic,
	})
	require.NoError(t, err)

	goals, err := svc.store.ListGoals(ctx, "user-1", 2026)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, goal.ID, goals[0].ID)
	assert.Equal(t, 30, goals[0].Target)
	assert.Equal(t, domain.VisibilityPublic, goals[0].Visibility)
}

func TestGoalService_SetRejectsInvalid(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		year int
		in   SetGoalInput
	}{
		{"unknown type", 2026, SetGoalInput{Type: "hours", Target: 10}},
		{"zero target", 2026, SetGoalInput{Type: domain.GoalPages, Target: 0}},
		{"bad year", 12, SetGoalInput{Type: domain.GoalPages, Target: 10}},
		{"bad visibility", 2026, SetGoalInput{Type: domain.GoalPages, Target: 10, Visibility: "everyone"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.goals.Set(ctx, "user-1", tt.year, tt.in)
			assert.ErrorIs(t, err, errors.ErrValidation)
		})
	}
}

func TestGoalService_Delete(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	_, err := svc.goals.Set(ctx, "user-1", 2026, SetGoalInput{Type: domain.GoalPages, Target: 5000})
	require.NoError(t, err)

	require.NoError(t, svc.goals.Delete(ctx, "user-1", 2026, domain.GoalPages))
	assert.ErrorIs(t, svc.goals.Delete(ctx, "user-1", 2026, domain.GoalPages), errors.ErrNotFound)
	assert.ErrorIs(t, svc.goals.Delete(ctx, "user-1", 2026, "hours"), errors.ErrValidation)
}

func TestNewGoalService_UsesReaderLocation(t *testing.T) {
	kiritimati := time.FixedZone("LINT", 14*60*60)
	goals := NewGoalService(newTestStore(t), kiritimati, logger.Discard().Logger)
	goals.clock.now = func() time.Time { return time.Date(2026, time.December, 31, 12, 0, 0, 0, time.UTC) }

	// Already New Year's Day east of the date line.
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), goals.clock.today())

	assert.Equal(t, time.UTC, NewGoalService(newTestStore(t), nil, logger.Discard().Logger).clock.loc)
}
