package sqlite

import (
	"context"
	"fmt"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

// goalColumns must match the scan order in scanGoal.
const goalColumns = `id, user_id, type, target, year, visibility, created_at, updated_at`

func scanGoal(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingGoal, error) {
	var (
		g         domain.ReadingGoal
		createdAt string
		updatedAt string
	)
	if err := scanner.Scan(&g.ID, &g.UserID, &g.Type, &g.Target, &g.Year, &g.Visibility, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if g.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if g.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &g, nil
}

// UpsertGoal creates the user's goal for (type, year) or replaces its target
// and visibility. On update the stored ID and creation time are written back
// into goal.
func (s *Store) UpsertGoal(ctx context.Context, goal *domain.ReadingGoal) error {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO reading_goals (`+goalColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, type, year) DO UPDATE SET
			target = excluded.target,
			visibility = excluded.visibility,
			updated_at = excluded.updated_at
		RETURNING `+goalColumns,
		goal.ID,
		goal.UserID,
		string(goal.Type),
		goal.Target,
		goal.Year,
		string(goal.Visibility),
		formatTime(goal.CreatedAt),
		formatTime(goal.UpdatedAt),
	)
	stored, err := scanGoal(row)
	if err != nil {
		return fmt.Errorf("upsert goal: %w", err)
	}
	*goal = *stored
	return nil
}

// ListGoals returns the user's goals for a year ordered by type.
func (s *Store) ListGoals(ctx context.Context, userID string, year int) ([]domain.ReadingGoal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+goalColumns+` FROM reading_goals WHERE user_id = ? AND year = ? ORDER BY type`,
		userID, year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	goals := []domain.ReadingGoal{}
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, *g)
	}
	return goals, rows.Err()
}

// DeleteGoal removes one goal.
// Returns store.ErrNotFound if no such goal exists.
func (s *Store) DeleteGoal(ctx context.Context, userID string, year int, goalType domain.GoalType) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM reading_goals WHERE user_id = ? AND year = ? AND type = ?`,
		userID, year, string(goalType),
	)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessagef("no %s goal for %d", goalType, year)
	}
	return nil
}
