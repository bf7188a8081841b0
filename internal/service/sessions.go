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

// SessionService logs and lists reading sessions.
type SessionService struct {
	store  store.Store
	logger *slog.Logger
	clock  clock
}

// NewSessionService creates a session service.
func NewSessionService(s store.Store, loc *time.Location, logger *slog.Logger) *SessionService {
	return &SessionService{store: s, logger: logger, clock: newClock(loc)}
}

// LogSessionInput describes pages read on one day. A zero Date means today.
type LogSessionInput struct {
	BookID    string
	Date      time.Time
	PagesRead int
}

// Log records a reading session for a book on the reader's shelf. Sessions
// for a book being read also move its current page forward, up to the last
// page when the length is known.
func (s *SessionService) Log(ctx context.Context, userID string, in LogSessionInput) (*domain.ReadingSession, error) {
	today := s.clock.today()
	day := today
	if !in.Date.IsZero() {
		day = domain.DayOf(in.Date)
	}
	if day.After(today) {
		return nil, errors.Validationf("cannot log a session for a future date (%s)", day.Format(domain.DateLayout))
	}

	entries, err := s.store.ListShelf(ctx, userID, store.ShelfFilter{BookID: in.BookID})
	if err != nil {
		return nil, fmt.Errorf("get shelf entry: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.NotFoundf("book %s is not on your shelf", in.BookID)
	}
	entry := entries[0]

	sessionID, err := id.Generate(id.PrefixSession)
	if err != nil {
		return nil, fmt.Errorf("generate session ID: %w", err)
	}
	session, err := domain.NewReadingSession(sessionID, userID, in.BookID, day, in.PagesRead)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateReadingSession(ctx, session); err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}

	if entry.Status == domain.StatusCurrentlyReading {
		s.advance(ctx, entry, in.PagesRead)
	}

	s.logger.Info("reading session logged",
		"user_id", userID,
		"book_id", in.BookID,
		"session_id", session.ID,
		"pages", in.PagesRead,
		"date", day.Format(domain.DateLayout),
	)
	return session, nil
}

// advance moves the current page forward. The session is already stored,
// so a failure here is logged rather than returned.
func (s *SessionService) advance(ctx context.Context, entry domain.ShelfEntry, pages int) {
	ub := entry.UserBook
	next := ub.CurrentPage + pages
	if total := entry.Book.PageCount; total > 0 {
		next = min(next, total)
	}
	if next == ub.CurrentPage {
		return
	}
	ub.CurrentPage = next
	ub.UpdatedAt = s.clock.now()
	if err := s.store.UpdateUserBook(ctx, &ub); err != nil {
		s.logger.Warn("failed to advance current page",
			"user_id", ub.UserID,
			"book_id", ub.BookID,
			"error", err,
		)
	}
}

// ListSessionsInput filters sessions. Zero dates leave that end open.
type ListSessionsInput struct {
	BookID string
	From   time.Time
	To     time.Time
}

// List returns the reader's sessions oldest first.
func (s *SessionService) List(ctx context.Context, userID string, in ListSessionsInput) ([]domain.ReadingSession, error) {
	if !in.From.IsZero() && !in.To.IsZero() && in.To.Before(in.From) {
		return nil, errors.Validation("'to' must not be before 'from'")
	}
	sessions, err := s.store.ListReadingSessions(ctx, store.SessionFilter{
		UserID: userID,
		BookID: in.BookID,
		From:   in.From,
		To:     in.To,
	})
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}
