package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/search",
		Summary:     "Search books",
		Description: "Searches the upstream catalog (remote) or books already cached here (local)",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleSearchBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "lookupBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/books/lookup",
		Summary:     "Look up book",
		Description: "Returns the cached book for an external ID or ISBN, fetching it upstream on first use",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleLookupBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a cached book by ID",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)
}

// === DTOs ===

// SearchBooksInput contains search parameters.
type SearchBooksInput struct {
	Query  string `query:"q" doc:"Free-text query"`
	Source string `query:"source" enum:"remote,local" doc:"Where to search (default remote)"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Maximum results (default 20)"`
}

// SearchBooksOutput wraps search results for Huma.
type SearchBooksOutput struct {
	Body service.BookSearchResult
}

// LookupBookRequest identifies a book by external ID or ISBN.
type LookupBookRequest struct {
	ExternalID string `json:"externalId,omitempty" validate:"required_without=ISBN" doc:"Upstream work key, e.g. OL45883W"`
	ISBN       string `json:"isbn,omitempty" validate:"omitempty,isbn" doc:"ISBN-10 or ISBN-13"`
}

// LookupBookInput wraps the lookup request for Huma.
type LookupBookInput struct {
	Body LookupBookRequest
}

// BookOutput wraps a book for Huma.
type BookOutput struct {
	Body domain.Book
}

// GetBookInput identifies a book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// === Handlers ===

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*SearchBooksOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	res, err := s.services.Books.Search(ctx, input.Query, input.Source, input.Limit)
	if err != nil {
		return nil, err
	}
	return &SearchBooksOutput{Body: *res}, nil
}

func (s *Server) handleLookupBook(ctx context.Context, input *LookupBookInput) (*BookOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	book, err := s.services.Books.Lookup(ctx, service.LookupInput{
		ExternalID: input.Body.ExternalID,
		ISBN:       input.Body.ISBN,
	})
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: *book}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	if _, err := GetUserID(ctx); err != nil {
		return nil, err
	}

	book, err := s.services.Books.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: *book}, nil
}
