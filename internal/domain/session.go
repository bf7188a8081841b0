package domain

import (
	"time"

	"github.com/shelfnote/shelfnote-server/internal/errors"
)

// DateLayout is the wire format for calendar days.
const DateLayout = time.DateOnly

// ReadingSession records pages read in one book on one calendar day.
// Sessions are append-only and never updated once written.
type ReadingSession struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	BookID    string    `json:"book_id"`
	Date      time.Time `json:"date"` // UTC midnight of the calendar day
	PagesRead int       `json:"pages_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NewReadingSession builds a session for the calendar day of date.
func NewReadingSession(id, userID, bookID string, date time.Time, pagesRead int) (*ReadingSession, error) {
	if pagesRead <= 0 {
		return nil, errors.Validationf("pages read must be positive, got %d", pagesRead)
	}
	if bookID == "" {
		return nil, errors.Validation("book id is required")
	}
	return &ReadingSession{
		ID:        id,
		UserID:    userID,
		BookID:    bookID,
		Date:      DayOf(date),
		PagesRead: pagesRead,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// DayOf returns the calendar day of t (in t's own location) as UTC midnight.
// All day arithmetic happens on these values so DST never shifts a day.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return DayOf(now.In(loc))
}

// DaysBetween returns the whole days from a to b. Both must be day values.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD string into a day value.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, errors.Validationf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return t, nil
}
