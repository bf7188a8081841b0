package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

func TestUpsertGoal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	goal := &domain.ReadingGoal{
		ID: "goal-1", UserID: "user-1", Type: domain.GoalBooks, Target: 24, Year: 2025,
		Visibility: domain.VisibilityPrivate, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.UpsertGoal(ctx, goal))

	again := &domain.ReadingGoal{
		ID: "goal-2", UserID: "user-1", Type: domain.GoalBooks, Target: 30, Year: 2025,
		Visibility: domain.VisibilityPublic, CreatedAt: now.Add(time.Hour), UpdatedAt: now.Add(time.Hour),
	}
	require.NoError(t, s.UpsertGoal(ctx, again))
	assert.Equal(t, "goal-1", again.ID, "one goal per user, type and year")
	assert.Equal(t, 30, again.Target)
	assert.Equal(t, now, again.CreatedAt)

	other := &domain.ReadingGoal{
		ID: "goal-3", UserID: "user-1", Type: domain.GoalPages, Target: 10000, Year: 2025,
		Visibility: domain.VisibilityFriends, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, s.UpsertGoal(ctx, other))

	goals, err := s.ListGoals(ctx, "user-1", 2025)
	require.NoError(t, err)
	require.Len(t, goals, 2)
	assert.Equal(t, domain.GoalBooks, goals[0].Type)
	assert.Equal(t, domain.VisibilityPublic, goals[0].Visibility)
	assert.Equal(t, domain.GoalPages, goals[1].Type)

	none, err := s.ListGoals(ctx, "user-1", 2024)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteGoal(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, s.UpsertGoal(ctx, &domain.ReadingGoal{
		ID: "goal-1", UserID: "user-1", Type: domain.GoalConsistency, Target: 200, Year: 2025,
		Visibility: domain.VisibilityPrivate, CreatedAt: now, UpdatedAt: now,
	}))

	require.NoError(t, s.DeleteGoal(ctx, "user-1", 2025, domain.GoalConsistency))
	err := s.DeleteGoal(ctx, "user-1", 2025, domain.GoalConsistency)
	assert.True(t, errors.Is(err, store.ErrNotFound))
}
