package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/service"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

func (s *Server) registerLibraryRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/library",
		Summary:     "List library",
		Description: "Returns the reader's shelf, newest first, optionally filtered by status",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "getLibraryEntry",
		Method:      http.MethodGet,
		Path:        "/api/v1/library/{bookId}",
		Summary:     "Get library entry",
		Description: "Returns one book on the reader's shelf",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetLibraryEntry)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addToLibrary",
		Method:        http.MethodPut,
		Path:          "/api/v1/library/{bookId}",
		Summary:       "Add to library",
		Description:   "Puts a cached book on the reader's shelf as want-to-read or currently-reading",
		Tags:          []string{"Library"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddToLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID:   "removeFromLibrary",
		Method:        http.MethodDelete,
		Path:          "/api/v1/library/{bookId}",
		Summary:       "Remove from library",
		Description:   "Takes a book off the shelf; logged sessions are kept",
		Tags:          []string{"Library"},
		Security:      []map[string][]string{{"bearer": {}}},
		DefaultStatus: http.StatusNoContent,
	}, s.handleRemoveFromLibrary)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReadingStatus",
		Method:      http.MethodPatch,
		Path:        "/api/v1/library/{bookId}/status",
		Summary:     "Update reading status",
		Description: "Moves a book through want-to-read, currently-reading, finished, paused and dnf",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateReview",
		Method:      http.MethodPatch,
		Path:        "/api/v1/library/{bookId}/review",
		Summary:     "Update review",
		Description: "Changes the rating, moods, pacing or reading format; omitted fields are kept",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateReview)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProgress",
		Method:      http.MethodPatch,
		Path:        "/api/v1/library/{bookId}/progress",
		Summary:     "Update progress",
		Description: "Sets the current page",
		Tags:        []string{"Library"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProgress)
}

// === DTOs ===

// ListLibraryInput contains filter and pagination parameters.
type ListLibraryInput struct {
	Status string `query:"status" enum:"want-to-read,currently-reading,finished,paused,dnf" doc:"Only books with this status"`
	Limit  int    `query:"limit" minimum:"0" maximum:"1000" doc:"Items per page (default 100)"`
	Cursor string `query:"cursor" doc:"Cursor from the previous page"`
}

// ListLibraryOutput wraps a page of shelf entries for Huma.
type ListLibraryOutput struct {
	Body store.PaginatedResult[domain.ShelfEntry]
}

// LibraryEntryInput identifies a shelved book.
type LibraryEntryInput struct {
	BookID string `path:"bookId" doc:"Book ID"`
}

// LibraryEntryOutput wraps a shelf entry for Huma.
type LibraryEntryOutput struct {
	Body domain.ShelfEntry
}

// AddToLibraryRequest sets the starting status.
type AddToLibraryRequest struct {
	Status string `json:"status,omitempty" validate:"omitempty,oneof=want-to-read currently-reading" doc:"want-to-read (default) or currently-reading"`
}

// AddToLibraryInput wraps the add request for Huma.
type AddToLibraryInput struct {
	BookID string              `path:"bookId" doc:"Book ID"`
	Body   AddToLibraryRequest `required:"false"`
}

// UpdateStatusRequest is the request body for a status change.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required" doc:"New reading status"`
}

// UpdateStatusInput wraps the status request for Huma.
type UpdateStatusInput struct {
	BookID string `path:"bookId" doc:"Book ID"`
	Body   UpdateStatusRequest
}

// UpdateReviewRequest is the request body for a review update.
type UpdateReviewRequest struct {
	Rating      *float64  `json:"rating,omitempty" doc:"0 to 5, rounded to the nearest quarter"`
	ClearRating bool      `json:"clear_rating,omitempty" doc:"Remove the rating"`
	Moods       *[]string `json:"moods,omitempty" doc:"Mood tags; replaces the existing set"`
	Pacing      *string   `json:"pacing,omitempty" doc:"slow, medium or fast; empty clears"`
	Format      *string   `json:"format,omitempty" validate:"omitempty,oneof=physical ebook audiobook" doc:"Reading format; empty clears"`
}

// UpdateReviewInput wraps the review request for Huma.
type UpdateReviewInput struct {
	BookID string `path:"bookId" doc:"Book ID"`
	Body   UpdateReviewRequest
}

// UpdateProgressRequest is the request body for a progress update.
type UpdateProgressRequest struct {
	CurrentPage int `json:"current_page" minimum:"0" doc:"Current page"`
}

// UpdateProgressInput wraps the progress request for Huma.
type UpdateProgressInput struct {
	BookID string `path:"bookId" doc:"Book ID"`
	Body   UpdateProgressRequest
}

// === Handlers ===

func (s *Server) handleListLibrary(ctx context.Context, input *ListLibraryInput) (*ListLibraryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	page, err := s.services.Library.List(ctx, userID, domain.ReadingStatus(input.Status), store.PaginationParams{
		Limit:  input.Limit,
		Cursor: input.Cursor,
	})
	if err != nil {
		return nil, err
	}
	return &ListLibraryOutput{Body: *page}, nil
}

func (s *Server) handleGetLibraryEntry(ctx context.Context, input *LibraryEntryInput) (*LibraryEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Library.Get(ctx, userID, input.BookID)
	if err != nil {
		return nil, err
	}
	return &LibraryEntryOutput{Body: *entry}, nil
}

func (s *Server) handleAddToLibrary(ctx context.Context, input *AddToLibraryInput) (*LibraryEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	entry, err := s.services.Library.Add(ctx, userID, input.BookID, domain.ReadingStatus(input.Body.Status))
	if err != nil {
		return nil, err
	}
	return &LibraryEntryOutput{Body: *entry}, nil
}

func (s *Server) handleRemoveFromLibrary(ctx context.Context, input *LibraryEntryInput) (*struct{}, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.services.Library.Remove(ctx, userID, input.BookID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleUpdateStatus(ctx context.Context, input *UpdateStatusInput) (*LibraryEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	entry, err := s.services.Library.UpdateStatus(ctx, userID, input.BookID, domain.ReadingStatus(input.Body.Status))
	if err != nil {
		return nil, err
	}
	return &LibraryEntryOutput{Body: *entry}, nil
}

func (s *Server) handleUpdateReview(ctx context.Context, input *UpdateReviewInput) (*LibraryEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	body := input.Body
	entry, err := s.services.Library.UpdateReview(ctx, userID, input.BookID, service.ReviewUpdate{
		Rating:      body.Rating,
		ClearRating: body.ClearRating,
		Moods:       body.Moods,
		Pacing:      body.Pacing,
		Format:      body.Format,
	})
	if err != nil {
		return nil, err
	}
	return &LibraryEntryOutput{Body: *entry}, nil
}

func (s *Server) handleUpdateProgress(ctx context.Context, input *UpdateProgressInput) (*LibraryEntryOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	entry, err := s.services.Library.UpdateProgress(ctx, userID, input.BookID, input.Body.CurrentPage)
	if err != nil {
		return nil, err
	}
	return &LibraryEntryOutput{Body: *entry}, nil
}
