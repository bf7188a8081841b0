package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/errors"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

// LibraryService manages a reader's shelf: which books they track, where
// each stands, and how they reviewed it.
type LibraryService struct {
	store  store.Store
	logger *slog.Logger
	clock  clock
}

// NewLibraryService creates a library service.
func NewLibraryService(s store.Store, loc *time.Location, logger *slog.Logger) *LibraryService {
	return &LibraryService{store: s, logger: logger, clock: newClock(loc)}
}

// List returns one page of the reader's shelf, optionally filtered by status.
func (s *LibraryService) List(ctx context.Context, userID string, status domain.ReadingStatus, page store.PaginationParams) (*store.PaginatedResult[domain.ShelfEntry], error) {
	if status != "" && !status.Valid() {
		return nil, errors.Validationf("unknown status %q", status)
	}
	res, err := s.store.ListShelfPage(ctx, userID, store.ShelfFilter{Status: status}, page)
	if err != nil {
		return nil, fmt.Errorf("list shelf: %w", err)
	}
	return res, nil
}

// Get returns one shelf entry.
func (s *LibraryService) Get(ctx context.Context, userID, bookID string) (*domain.ShelfEntry, error) {
	entries, err := s.store.ListShelf(ctx, userID, store.ShelfFilter{BookID: bookID})
	if err != nil {
		return nil, fmt.Errorf("get shelf entry: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.NotFoundf("book %s is not on your shelf", bookID)
	}
	return &entries[0], nil
}

// Add puts a book on the shelf as want-to-read or currently-reading.
func (s *LibraryService) Add(ctx context.Context, userID, bookID string, status domain.ReadingStatus) (*domain.ShelfEntry, error) {
	ub, err := domain.NewUserBook(userID, bookID, status, s.clock.now())
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateUserBook(ctx, ub); err != nil {
		switch {
		case errors.Is(err, store.ErrAlreadyExists):
			return nil, errors.AlreadyExists("book is already on your shelf")
		case errors.Is(err, store.ErrNotFound):
			return nil, errors.NotFoundf("book %s not found", bookID)
		}
		return nil, fmt.Errorf("add to shelf: %w", err)
	}

	s.logger.Info("book shelved",
		"user_id", userID,
		"book_id", bookID,
		"status", ub.Status,
	)
	return s.Get(ctx, userID, bookID)
}

// Remove takes a book off the shelf. Logged sessions stay.
func (s *LibraryService) Remove(ctx context.Context, userID, bookID string) error {
	if err := s.store.DeleteUserBook(ctx, userID, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("book %s is not on your shelf", bookID)
		}
		return fmt.Errorf("remove from shelf: %w", err)
	}
	return nil
}

// UpdateStatus moves a book through the reading state machine. Setting the
// status it already has changes nothing.
func (s *LibraryService) UpdateStatus(ctx context.Context, userID, bookID string, next domain.ReadingStatus) (*domain.ShelfEntry, error) {
	entry, err := s.Get(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}

	ub := entry.UserBook
	prev := ub.Status
	changed, err := ub.TransitionTo(next, s.clock.now())
	if err != nil {
		return nil, err
	}
	if !changed {
		return entry, nil
	}
	if next == domain.StatusFinished && entry.Book.PageCount > 0 {
		ub.CurrentPage = entry.Book.PageCount
	}

	if err := s.save(ctx, &ub); err != nil {
		return nil, err
	}
	s.logger.Info("reading status changed",
		"user_id", userID,
		"book_id", bookID,
		"from", prev,
		"to", next,
	)
	entry.UserBook = ub
	return entry, nil
}

// ReviewUpdate carries the review fields to change. Nil fields are left
// as they are.
type ReviewUpdate struct {
	Rating      *float64
	ClearRating bool
	Moods       *[]string
	Pacing      *string // "" clears
	Format      *string // "" clears
}

// UpdateReview changes the rating, moods, pacing or format of a shelved
// book. Ratings are rounded to the nearest quarter star.
func (s *LibraryService) UpdateReview(ctx context.Context, userID, bookID string, upd ReviewUpdate) (*domain.ShelfEntry, error) {
	entry, err := s.Get(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	ub := entry.UserBook

	switch {
	case upd.ClearRating:
		ub.Rating = nil
	case upd.Rating != nil:
		r, err := domain.NormalizeRating(*upd.Rating)
		if err != nil {
			return nil, err
		}
		ub.Rating = &r
	}

	review := ub.ReviewAttributes
	if upd.Moods != nil {
		review.Moods = *upd.Moods
	}
	if upd.Pacing != nil {
		review.Pacing = ""
		if raw := strings.TrimSpace(*upd.Pacing); raw != "" {
			p, ok := domain.ParsePacing(raw)
			if !ok {
				return nil, errors.Validationf("unknown pacing %q (use slow, medium or fast)", raw)
			}
			review.Pacing = p
		}
	}
	ub.ReviewAttributes = review.Normalized()

	if upd.Format != nil {
		f := domain.ReadingFormat(strings.TrimSpace(*upd.Format))
		if !f.Valid() {
			return nil, errors.Validationf("unknown reading format %q", f)
		}
		ub.ReadingFormat = f
	}

	ub.UpdatedAt = s.clock.now()
	if err := s.save(ctx, &ub); err != nil {
		return nil, err
	}
	entry.UserBook = ub
	return entry, nil
}

// UpdateProgress sets the current page. Pages beyond a known page count are
// rejected.
func (s *LibraryService) UpdateProgress(ctx context.Context, userID, bookID string, currentPage int) (*domain.ShelfEntry, error) {
	if currentPage < 0 {
		return nil, errors.Validationf("current page cannot be negative, got %d", currentPage)
	}
	entry, err := s.Get(ctx, userID, bookID)
	if err != nil {
		return nil, err
	}
	if total := entry.Book.PageCount; total > 0 && currentPage > total {
		return nil, errors.Validationf("current page %d is past the last page (%d)", currentPage, total)
	}

	ub := entry.UserBook
	ub.CurrentPage = currentPage
	ub.UpdatedAt = s.clock.now()
	if err := s.save(ctx, &ub); err != nil {
		return nil, err
	}
	entry.UserBook = ub
	return entry, nil
}

func (s *LibraryService) save(ctx context.Context, ub *domain.UserBook) error {
	if !ub.Consistent() {
		return errors.Internal("shelf entry dates are inconsistent with its status")
	}
	if err := s.store.UpdateUserBook(ctx, ub); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFoundf("book %s is not on your shelf", ub.BookID)
		}
		return fmt.Errorf("update shelf entry: %w", err)
	}
	return nil
}
