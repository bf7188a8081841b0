// Package store defines the persistence interface for the Shelfnote server.
package store

import (
	"context"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// Store defines the interface for all persistence operations.
type Store interface {
	// Lifecycle
	Close() error
	Ping(ctx context.Context) error
	SetSearchIndexer(indexer SearchIndexer)

	// Books
	UpsertBook(ctx context.Context, book *domain.Book) (*domain.Book, error)
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	GetBookByExternalID(ctx context.Context, externalID string) (*domain.Book, error)
	GetBookByISBN(ctx context.Context, isbn13 string) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]*domain.Book, error)

	// Shelf (user books)
	CreateUserBook(ctx context.Context, ub *domain.UserBook) error
	GetUserBook(ctx context.Context, userID, bookID string) (*domain.UserBook, error)
	UpdateUserBook(ctx context.Context, ub *domain.UserBook) error
	DeleteUserBook(ctx context.Context, userID, bookID string) error
	ListShelf(ctx context.Context, userID string, filter ShelfFilter) ([]domain.ShelfEntry, error)
	ListShelfPage(ctx context.Context, userID string, filter ShelfFilter, page PaginationParams) (*PaginatedResult[domain.ShelfEntry], error)
	ListBookReviews(ctx context.Context, bookID, excludeUserID string) ([][]byte, error)

	// Reading sessions are append-only: there is no update.
	CreateReadingSession(ctx context.Context, session *domain.ReadingSession) error
	ListReadingSessions(ctx context.Context, filter SessionFilter) ([]domain.ReadingSession, error)

	// Goals
	UpsertGoal(ctx context.Context, goal *domain.ReadingGoal) error
	ListGoals(ctx context.Context, userID string, year int) ([]domain.ReadingGoal, error)
	DeleteGoal(ctx context.Context, userID string, year int, goalType domain.GoalType) error
}

// SearchIndexer keeps the local book search index in step with stored books.
type SearchIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
}

type noopSearchIndexer struct{}

func (noopSearchIndexer) IndexBook(context.Context, *domain.Book) error { return nil }

// NewNoopSearchIndexer returns an indexer that does nothing.
func NewNoopSearchIndexer() SearchIndexer { return noopSearchIndexer{} }
