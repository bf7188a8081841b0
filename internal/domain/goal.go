package domain

import (
	"time"

	"github.com/shelfnote/shelfnote-server/internal/errors"
)

// GoalType is what a reading goal counts.
type GoalType string

// Goal types.
const (
	GoalBooks       GoalType = "books"
	GoalPages       GoalType = "pages"
	GoalGenres      GoalType = "genres"
	GoalConsistency GoalType = "consistency" // distinct reading days
)

// Valid reports whether t is a known goal type.
func (t GoalType) Valid() bool {
	switch t {
	case GoalBooks, GoalPages, GoalGenres, GoalConsistency:
		return true
	}
	return false
}

// GoalVisibility controls who may see a goal.
type GoalVisibility string

// Goal visibilities.
const (
	VisibilityPrivate GoalVisibility = "private"
	VisibilityFriends GoalVisibility = "friends"
	VisibilityPublic  GoalVisibility = "public"
)

// Valid reports whether v is a known visibility.
func (v GoalVisibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityFriends, VisibilityPublic:
		return true
	}
	return false
}

// ReadingGoal is a yearly target. There is at most one goal per
// (user, type, year).
type ReadingGoal struct {
	ID         string         `json:"id"`
	UserID     string         `json:"user_id"`
	Type       GoalType       `json:"type"`
	Target     int            `json:"target"`
	Current    int            `json:"current"`
	Year       int            `json:"year"`
	Visibility GoalVisibility `json:"visibility"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// Validate checks the goal's fields.
func (g *ReadingGoal) Validate() error {
	if !g.Type.Valid() {
		return errors.Validationf("unknown goal type %q", g.Type)
	}
	if g.Target <= 0 {
		return errors.Validationf("goal target must be positive, got %d", g.Target)
	}
	if g.Year < 1900 || g.Year > 9999 {
		return errors.Validationf("invalid goal year %d", g.Year)
	}
	if g.Visibility == "" {
		g.Visibility = VisibilityPrivate
	}
	if !g.Visibility.Valid() {
		return errors.Validationf("unknown visibility %q", g.Visibility)
	}
	return nil
}
