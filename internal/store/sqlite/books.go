package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

// bookColumns must match the scan order in bookDest.
const bookColumns = `id, external_id, title, authors, subjects, page_count, isbn13,
	publish_year, description, cover_small, cover_medium, cover_large, created_at, updated_at`

// joinedBookColumns is bookColumns qualified for the shelf join.
const joinedBookColumns = `b.id, b.external_id, b.title, b.authors, b.subjects, b.page_count, b.isbn13,
	b.publish_year, b.description, b.cover_small, b.cover_medium, b.cover_large, b.created_at, b.updated_at`

// bookRaw holds the nullable and encoded book columns during a scan.
type bookRaw struct {
	authors     string
	subjects    string
	isbn13      sql.NullString
	publishYear sql.NullInt64
	description sql.NullString
	small       sql.NullString
	medium      sql.NullString
	large       sql.NullString
	createdAt   string
	updatedAt   string
}

func bookDest(b *domain.Book, raw *bookRaw) []any {
	return []any{
		&b.ID,
		&b.ExternalID,
		&b.Title,
		&raw.authors,
		&raw.subjects,
		&b.PageCount,
		&raw.isbn13,
		&raw.publishYear,
		&raw.description,
		&raw.small,
		&raw.medium,
		&raw.large,
		&raw.createdAt,
		&raw.updatedAt,
	}
}

func (raw *bookRaw) apply(b *domain.Book) error {
	var err error
	if b.Authors, err = unmarshalStrings(raw.authors); err != nil {
		return fmt.Errorf("decode authors: %w", err)
	}
	if b.Subjects, err = unmarshalStrings(raw.subjects); err != nil {
		return fmt.Errorf("decode subjects: %w", err)
	}
	b.ISBN13 = raw.isbn13.String
	b.PublishYear = int(raw.publishYear.Int64)
	b.Description = raw.description.String
	b.Covers = domain.CoverURLs{Small: raw.small.String, Medium: raw.medium.String, Large: raw.large.String}
	if b.CreatedAt, err = parseTime(raw.createdAt); err != nil {
		return err
	}
	b.UpdatedAt, err = parseTime(raw.updatedAt)
	return err
}

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var (
		b   domain.Book
		raw bookRaw
	)
	if err := scanner.Scan(bookDest(&b, &raw)...); err != nil {
		return nil, err
	}
	if err := raw.apply(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// UpsertBook inserts a book or refreshes the metadata of the book with the
// same external ID. The stored row is returned; an existing row keeps its ID
// and creation time.
func (s *Store) UpsertBook(ctx context.Context, book *domain.Book) (*domain.Book, error) {
	if book.ExternalID == "" {
		return nil, store.ErrInvalidInput.WithMessage("book external id is required")
	}

	authors, err := marshalStrings(book.Authors)
	if err != nil {
		return nil, err
	}
	subjects, err := marshalStrings(book.Subjects)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if book.CreatedAt.IsZero() {
		book.CreatedAt = now
	}
	book.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO books (`+bookColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			title = excluded.title,
			authors = excluded.authors,
			subjects = excluded.subjects,
			page_count = excluded.page_count,
			isbn13 = COALESCE(excluded.isbn13, books.isbn13),
			publish_year = COALESCE(excluded.publish_year, books.publish_year),
			description = COALESCE(excluded.description, books.description),
			cover_small = excluded.cover_small,
			cover_medium = excluded.cover_medium,
			cover_large = excluded.cover_large,
			updated_at = excluded.updated_at`,
		book.ID,
		book.ExternalID,
		book.Title,
		authors,
		subjects,
		book.PageCount,
		nullString(book.ISBN13),
		nullInt(book.PublishYear),
		nullString(book.Description),
		nullString(book.Covers.Small),
		nullString(book.Covers.Medium),
		nullString(book.Covers.Large),
		formatTime(book.CreatedAt),
		formatTime(book.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrAlreadyExists.WithMessagef("book id %s already used", book.ID)
		}
		return nil, fmt.Errorf("upsert book: %w", err)
	}

	stored, err := s.GetBookByExternalID(ctx, book.ExternalID)
	if err != nil {
		return nil, err
	}

	if err := s.indexer().IndexBook(ctx, stored); err != nil {
		s.logger.Warn("failed to index book", "book_id", stored.ID, "error", err)
	}
	return stored, nil
}

// GetBook retrieves a book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	return s.getBookWhere(ctx, "id = ?", id)
}

// GetBookByExternalID retrieves a book by its upstream identifier.
func (s *Store) GetBookByExternalID(ctx context.Context, externalID string) (*domain.Book, error) {
	return s.getBookWhere(ctx, "external_id = ?", externalID)
}

// GetBookByISBN retrieves a book by ISBN-13.
func (s *Store) GetBookByISBN(ctx context.Context, isbn13 string) (*domain.Book, error) {
	return s.getBookWhere(ctx, "isbn13 = ?", isbn13)
}

func (s *Store) getBookWhere(ctx context.Context, where string, arg any) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE `+where+` LIMIT 1`, arg)
	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("book not found")
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooks returns every stored book ordered by title. Used to rebuild the
// search index.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+bookColumns+` FROM books ORDER BY title, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	return books, rows.Err()
}
