package domain

import (
	"math"
	"time"

	"github.com/shelfnote/shelfnote-server/internal/errors"
)

// ReadingStatus is where a book sits on a user's shelf.
type ReadingStatus string

// Reading statuses.
const (
	StatusWantToRead       ReadingStatus = "want-to-read"
	StatusCurrentlyReading ReadingStatus = "currently-reading"
	StatusFinished         ReadingStatus = "finished"
	StatusPaused           ReadingStatus = "paused"
	StatusDNF              ReadingStatus = "dnf"
)

// Valid reports whether s is a known status.
func (s ReadingStatus) Valid() bool {
	switch s {
	case StatusWantToRead, StatusCurrentlyReading, StatusFinished, StatusPaused, StatusDNF:
		return true
	}
	return false
}

var statusTransitions = map[ReadingStatus][]ReadingStatus{
	StatusWantToRead:       {StatusCurrentlyReading},
	StatusCurrentlyReading: {StatusFinished, StatusPaused, StatusDNF},
	StatusPaused:           {StatusWantToRead, StatusCurrentlyReading},
	StatusDNF:              {StatusWantToRead},
}

// CanTransitionTo reports whether moving from s to next is allowed.
// Staying on the same status is always allowed.
func (s ReadingStatus) CanTransitionTo(next ReadingStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range statusTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ReadingFormat is how the user consumed the book.
type ReadingFormat string

// Reading formats.
const (
	FormatPhysical  ReadingFormat = "physical"
	FormatEbook     ReadingFormat = "ebook"
	FormatAudiobook ReadingFormat = "audiobook"
)

// Valid reports whether f is a known format. Empty means unspecified.
func (f ReadingFormat) Valid() bool {
	switch f {
	case "", FormatPhysical, FormatEbook, FormatAudiobook:
		return true
	}
	return false
}

// Label returns the display name for the format.
func (f ReadingFormat) Label() string {
	switch f {
	case FormatPhysical:
		return "Physical"
	case FormatEbook:
		return "Ebook"
	case FormatAudiobook:
		return "Audiobook"
	}
	return ""
}

// UserBook is one user's relationship with one book.
type UserBook struct {
	UserID           string           `json:"user_id"`
	BookID           string           `json:"book_id"`
	Status           ReadingStatus    `json:"status"`
	Rating           *float64         `json:"rating,omitempty"`
	ReviewAttributes ReviewAttributes `json:"review_attributes"`
	ReadingFormat    ReadingFormat    `json:"reading_format,omitempty"`
	CurrentPage      int              `json:"current_page"`
	DateAdded        time.Time        `json:"date_added"`
	DateStarted      *time.Time       `json:"date_started,omitempty"`
	DateFinished     *time.Time       `json:"date_finished,omitempty"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// NewUserBook adds a book to a shelf. Only want-to-read and currently-reading
// are valid starting statuses.
func NewUserBook(userID, bookID string, status ReadingStatus, now time.Time) (*UserBook, error) {
	if status == "" {
		status = StatusWantToRead
	}
	if status != StatusWantToRead && status != StatusCurrentlyReading {
		return nil, errors.Validationf("books can only be added as %s or %s", StatusWantToRead, StatusCurrentlyReading)
	}
	ub := &UserBook{
		UserID:    userID,
		BookID:    bookID,
		Status:    status,
		DateAdded: now,
		UpdatedAt: now,
	}
	if status == StatusCurrentlyReading {
		started := DayOf(now)
		ub.DateStarted = &started
	}
	return ub, nil
}

// TransitionTo moves the book to next, keeping the date fields consistent:
// DateFinished is set only while finished, DateStarted is set once reading
// begins and cleared when the book goes back to want-to-read.
// Returns false when next equals the current status.
func (ub *UserBook) TransitionTo(next ReadingStatus, now time.Time) (bool, error) {
	if !next.Valid() {
		return false, errors.Validationf("unknown status %q", next)
	}
	if ub.Status == next {
		return false, nil
	}
	if !ub.Status.CanTransitionTo(next) {
		return false, errors.Validationf("cannot change status from %s to %s", ub.Status, next).
			WithDetails(map[string]string{"from": string(ub.Status), "to": string(next)})
	}

	today := DayOf(now)
	switch next {
	case StatusWantToRead:
		ub.DateStarted = nil
		ub.DateFinished = nil
		ub.CurrentPage = 0
	case StatusCurrentlyReading:
		if ub.DateStarted == nil {
			ub.DateStarted = &today
		}
		ub.DateFinished = nil
	case StatusFinished:
		if ub.DateStarted == nil {
			ub.DateStarted = &today
		}
		ub.DateFinished = &today
	case StatusPaused, StatusDNF:
		ub.DateFinished = nil
	}

	ub.Status = next
	ub.UpdatedAt = now
	return true, nil
}

// Consistent reports whether the status and date fields agree.
func (ub *UserBook) Consistent() bool {
	if (ub.DateFinished != nil) != (ub.Status == StatusFinished) {
		return false
	}
	if ub.Status == StatusWantToRead && ub.DateStarted != nil {
		return false
	}
	if ub.Status != StatusWantToRead && ub.DateStarted == nil {
		return false
	}
	return true
}

// ValidRating returns the normalized rating, or false when it is unset or
// out of range.
func (ub *UserBook) ValidRating() (float64, bool) {
	return ValidRating(ub.Rating)
}

// ValidRating normalizes an optional rating, reporting false when it is nil
// or out of range.
func ValidRating(r *float64) (float64, bool) {
	if r == nil {
		return 0, false
	}
	n, err := NormalizeRating(*r)
	if err != nil {
		return 0, false
	}
	return n, true
}

// NormalizeRating rounds r to the nearest quarter star. Values outside [0,5]
// and NaN are rejected.
func NormalizeRating(r float64) (float64, error) {
	if math.IsNaN(r) || math.IsInf(r, 0) || r < 0 || r > 5 {
		return 0, errors.Validationf("rating must be between 0 and 5, got %v", r)
	}
	return math.Round(r*4) / 4, nil
}
