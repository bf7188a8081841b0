package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/errors"
	"github.com/shelfnote/shelfnote-server/internal/id"
	"github.com/shelfnote/shelfnote-server/internal/metadata/openlibrary"
	"github.com/shelfnote/shelfnote-server/internal/search"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

// MetadataClient is the upstream book catalog.
type MetadataClient interface {
	Search(ctx context.Context, q string, limit int) ([]openlibrary.Work, error)
	SearchISBN(ctx context.Context, isbn string) ([]openlibrary.Work, error)
	GetWork(ctx context.Context, key string) (*openlibrary.Work, error)
	CoversURL() string
}

// BookIndex is the local full-text index over cached books.
type BookIndex interface {
	Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error)
	IndexBooks(ctx context.Context, books []*domain.Book) error
	Rebuild() error
}

// Search sources.
const (
	SourceRemote = "remote"
	SourceLocal  = "local"
)

// BookSearchResult is a list of candidate books. Remote results have no ID
// until they are looked up.
type BookSearchResult struct {
	Source string        `json:"source"`
	Total  int           `json:"total"`
	Books  []domain.Book `json:"books"`
}

// LookupInput identifies a book upstream by work key or ISBN.
type LookupInput struct {
	ExternalID string
	ISBN       string
}

// BookService finds books upstream and keeps the local copy of their
// metadata.
type BookService struct {
	store    store.Store
	metadata MetadataClient
	index    BookIndex
	logger   *slog.Logger
}

// NewBookService creates a book service. index may be nil, in which case
// local search is unavailable.
func NewBookService(s store.Store, metadata MetadataClient, index BookIndex, logger *slog.Logger) *BookService {
	return &BookService{store: s, metadata: metadata, index: index, logger: logger}
}

// Get returns a stored book.
func (s *BookService) Get(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("book %s not found", bookID)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}
	return book, nil
}

// Search finds books by free text, upstream or in the local index.
func (s *BookService) Search(ctx context.Context, q, source string, limit int) (*BookSearchResult, error) {
	q = strings.TrimSpace(q)
	switch source {
	case "", SourceRemote:
		return s.searchRemote(ctx, q, limit)
	case SourceLocal:
		return s.searchLocal(ctx, q, limit)
	}
	return nil, errors.Validationf("unknown search source %q (must be remote or local)", source)
}

func (s *BookService) searchRemote(ctx context.Context, q string, limit int) (*BookSearchResult, error) {
	works, err := s.metadata.Search(ctx, q, limit)
	if err != nil {
		return nil, upstreamError(err)
	}
	books := make([]domain.Book, 0, len(works))
	for _, w := range works {
		books = append(books, w.Book(s.metadata.CoversURL()))
	}
	return &BookSearchResult{Source: SourceRemote, Total: len(books), Books: books}, nil
}

func (s *BookService) searchLocal(ctx context.Context, q string, limit int) (*BookSearchResult, error) {
	if s.index == nil {
		return nil, errors.Internal("local search is not configured")
	}
	res, err := s.index.Search(ctx, search.SearchParams{Query: q, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	books := make([]domain.Book, 0, len(res.Hits))
	for _, hit := range res.Hits {
		book, err := s.store.GetBook(ctx, hit.ID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				s.logger.Debug("search hit has no stored book", "book_id", hit.ID)
				continue
			}
			return nil, fmt.Errorf("load search hit: %w", err)
		}
		books = append(books, *book)
	}
	return &BookSearchResult{Source: SourceLocal, Total: int(res.Total), Books: books}, nil
}

// Lookup returns the stored book for an external ID or ISBN, fetching and
// storing it from upstream on first use.
func (s *BookService) Lookup(ctx context.Context, in LookupInput) (*domain.Book, error) {
	switch {
	case in.ExternalID != "":
		return s.lookupWork(ctx, in.ExternalID)
	case in.ISBN != "":
		return s.lookupISBN(ctx, in.ISBN)
	}
	return nil, errors.Validation("externalId or isbn is required")
}

func (s *BookService) lookupWork(ctx context.Context, externalID string) (*domain.Book, error) {
	key, ok := openlibrary.NormalizeWorkKey(externalID)
	if !ok {
		return nil, errors.Validationf("invalid external id %q", externalID)
	}
	if book, err := s.store.GetBookByExternalID(ctx, key); err == nil {
		return book, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get book: %w", err)
	}

	work, err := s.metadata.GetWork(ctx, key)
	if err != nil {
		return nil, upstreamError(err)
	}
	return s.save(ctx, work)
}

func (s *BookService) lookupISBN(ctx context.Context, raw string) (*domain.Book, error) {
	code, err := openlibrary.NormalizeISBN(raw)
	if err != nil {
		return nil, errors.Validationf("invalid ISBN %q", raw)
	}
	if book, err := s.store.GetBookByISBN(ctx, code); err == nil {
		return book, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("get book: %w", err)
	}

	works, err := s.metadata.SearchISBN(ctx, code)
	if err != nil {
		return nil, upstreamError(err)
	}
	if len(works) == 0 {
		return nil, errors.NotFoundf("no book found for ISBN %s", code)
	}

	// Search results carry no page count; the work record does.
	work := works[0]
	if full, err := s.metadata.GetWork(ctx, work.Key); err == nil {
		if full.ISBN13 == "" {
			full.ISBN13 = work.ISBN13
		}
		work = *full
	} else {
		s.logger.Warn("failed to enrich ISBN result", "key", work.Key, "error", err)
	}
	return s.save(ctx, &work)
}

func (s *BookService) save(ctx context.Context, work *openlibrary.Work) (*domain.Book, error) {
	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}
	book := work.Book(s.metadata.CoversURL())
	book.ID = bookID

	stored, err := s.store.UpsertBook(ctx, &book)
	if err != nil {
		return nil, fmt.Errorf("store book: %w", err)
	}
	s.logger.Info("book cached from upstream",
		"book_id", stored.ID,
		"external_id", stored.ExternalID,
		"title", stored.Title,
	)
	return stored, nil
}

// Reindex rebuilds the local search index from every stored book.
func (s *BookService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}
	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}
	// Start empty so books no longer in the store drop out of results.
	if err := s.index.Rebuild(); err != nil {
		return 0, fmt.Errorf("reset index: %w", err)
	}
	if err := s.index.IndexBooks(ctx, books); err != nil {
		return 0, fmt.Errorf("index books: %w", err)
	}
	s.logger.Info("search index rebuilt", "books", len(books))
	return len(books), nil
}

// upstreamError maps a metadata client failure to a domain error.
func upstreamError(err error) error {
	switch {
	case errors.Is(err, openlibrary.ErrNotFound):
		return errors.NotFound("book not found upstream").WithCause(err)
	case errors.Is(err, openlibrary.ErrInvalidISBN), errors.Is(err, openlibrary.ErrInvalidKey),
		errors.Is(err, openlibrary.ErrBadRequest):
		return errors.Validation("invalid book identifier").WithCause(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return errors.Upstream(err, "book metadata service unavailable")
}
