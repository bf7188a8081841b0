package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

// userBookColumns must match the scan order in scanUserBook.
const userBookColumns = `ub.user_id, ub.book_id, ub.status, ub.rating, ub.review_attributes,
	ub.reading_format, ub.current_page, ub.date_added, ub.date_started, ub.date_finished, ub.updated_at`

func userBookDest(ub *domain.UserBook, raw *userBookRaw) []any {
	return []any{
		&ub.UserID,
		&ub.BookID,
		&ub.Status,
		&raw.rating,
		&raw.review,
		&raw.format,
		&ub.CurrentPage,
		&raw.dateAdded,
		&raw.dateStarted,
		&raw.dateFinished,
		&raw.updatedAt,
	}
}

type userBookRaw struct {
	rating       sql.NullFloat64
	review       sql.NullString
	format       sql.NullString
	dateAdded    string
	dateStarted  sql.NullString
	dateFinished sql.NullString
	updatedAt    string
}

func (raw *userBookRaw) apply(ub *domain.UserBook) error {
	var err error
	if raw.rating.Valid {
		r := raw.rating.Float64
		ub.Rating = &r
	}
	// Review JSON is decoded leniently; bad rows degrade to no attributes.
	ub.ReviewAttributes = domain.ParseReviewAttributes([]byte(raw.review.String))
	ub.ReadingFormat = domain.ReadingFormat(raw.format.String)

	if ub.DateAdded, err = parseTime(raw.dateAdded); err != nil {
		return err
	}
	if ub.DateStarted, err = parseNullableDate(raw.dateStarted); err != nil {
		return err
	}
	if ub.DateFinished, err = parseNullableDate(raw.dateFinished); err != nil {
		return err
	}
	ub.UpdatedAt, err = parseTime(raw.updatedAt)
	return err
}

func scanUserBook(scanner interface{ Scan(dest ...any) error }) (*domain.UserBook, error) {
	var (
		ub  domain.UserBook
		raw userBookRaw
	)
	if err := scanner.Scan(userBookDest(&ub, &raw)...); err != nil {
		return nil, err
	}
	if err := raw.apply(&ub); err != nil {
		return nil, err
	}
	return &ub, nil
}

func scanShelfEntry(scanner interface{ Scan(dest ...any) error }) (*domain.ShelfEntry, error) {
	var (
		entry domain.ShelfEntry
		raw   userBookRaw
		braw  bookRaw
	)
	dest := append(userBookDest(&entry.UserBook, &raw), bookDest(&entry.Book, &braw)...)
	if err := scanner.Scan(dest...); err != nil {
		return nil, err
	}
	if err := raw.apply(&entry.UserBook); err != nil {
		return nil, err
	}
	if err := braw.apply(&entry.Book); err != nil {
		return nil, err
	}
	return &entry, nil
}

func marshalReview(r domain.ReviewAttributes) (sql.NullString, error) {
	r = r.Normalized()
	if len(r.Moods) == 0 && r.Pacing == "" {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

// CreateUserBook adds a book to a user's shelf.
// Returns store.ErrAlreadyExists if the book is already shelved and
// store.ErrNotFound if the book does not exist.
func (s *Store) CreateUserBook(ctx context.Context, ub *domain.UserBook) error {
	review, err := marshalReview(ub.ReviewAttributes)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_books (
			user_id, book_id, status, rating, review_attributes, reading_format,
			current_page, date_added, date_started, date_finished, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ub.UserID,
		ub.BookID,
		string(ub.Status),
		nullFloat(ub.Rating),
		review,
		nullString(string(ub.ReadingFormat)),
		ub.CurrentPage,
		formatTime(ub.DateAdded),
		nullDateString(ub.DateStarted),
		nullDateString(ub.DateFinished),
		formatTime(ub.UpdatedAt),
	)
	switch {
	case isUniqueViolation(err):
		return store.ErrAlreadyExists.WithMessage("book is already on the shelf")
	case isForeignKeyViolation(err):
		return store.ErrNotFound.WithMessage("book not found")
	case err != nil:
		return fmt.Errorf("insert user book: %w", err)
	}
	return nil
}

// GetUserBook retrieves one shelf entry without its book.
// Returns store.ErrNotFound if the book is not on the user's shelf.
func (s *Store) GetUserBook(ctx context.Context, userID, bookID string) (*domain.UserBook, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userBookColumns+` FROM user_books ub WHERE ub.user_id = ? AND ub.book_id = ?`,
		userID, bookID,
	)
	ub, err := scanUserBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound.WithMessage("book is not on the shelf")
	}
	if err != nil {
		return nil, err
	}
	return ub, nil
}

// UpdateUserBook performs a full row update of a shelf entry.
// Returns store.ErrNotFound if the entry does not exist.
func (s *Store) UpdateUserBook(ctx context.Context, ub *domain.UserBook) error {
	review, err := marshalReview(ub.ReviewAttributes)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE user_books SET
			status = ?,
			rating = ?,
			review_attributes = ?,
			reading_format = ?,
			current_page = ?,
			date_started = ?,
			date_finished = ?,
			updated_at = ?
		WHERE user_id = ? AND book_id = ?`,
		string(ub.Status),
		nullFloat(ub.Rating),
		review,
		nullString(string(ub.ReadingFormat)),
		ub.CurrentPage,
		nullDateString(ub.DateStarted),
		nullDateString(ub.DateFinished),
		formatTime(ub.UpdatedAt),
		ub.UserID,
		ub.BookID,
	)
	if err != nil {
		return fmt.Errorf("update user book: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("book is not on the shelf")
	}
	return nil
}

// DeleteUserBook removes a book from a user's shelf. Reading sessions are
// kept: they are history, not shelf state.
func (s *Store) DeleteUserBook(ctx context.Context, userID, bookID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM user_books WHERE user_id = ? AND book_id = ?`, userID, bookID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound.WithMessage("book is not on the shelf")
	}
	return nil
}

func shelfQuery(userID string, filter store.ShelfFilter) (string, []any) {
	var (
		where = []string{"ub.user_id = ?"}
		args  = []any{userID}
	)
	if filter.Status != "" {
		where = append(where, "ub.status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.BookID != "" {
		where = append(where, "ub.book_id = ?")
		args = append(args, filter.BookID)
	}

	query := `SELECT ` + userBookColumns + `, ` + joinedBookColumns + `
		FROM user_books ub
		JOIN books b ON b.id = ub.book_id
		WHERE ` + strings.Join(where, " AND ")
	return query, args
}

// ListShelf returns the user's shelf joined with book metadata, most
// recently added first.
func (s *Store) ListShelf(ctx context.Context, userID string, filter store.ShelfFilter) ([]domain.ShelfEntry, error) {
	query, args := shelfQuery(userID, filter)
	rows, err := s.db.QueryContext(ctx, query+` ORDER BY ub.date_added DESC, ub.book_id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []domain.ShelfEntry{}
	for rows.Next() {
		e, err := scanShelfEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// ListShelfPage is ListShelf with keyset pagination on (date_added, book_id).
func (s *Store) ListShelfPage(ctx context.Context, userID string, filter store.ShelfFilter, page store.PaginationParams) (*store.PaginatedResult[domain.ShelfEntry], error) {
	page.Validate()

	query, args := shelfQuery(userID, filter)
	cursor, err := store.DecodeCursor(page.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != "" {
		added, bookID, ok := strings.Cut(cursor, "|")
		if !ok {
			return nil, store.ErrInvalidInput.WithMessage("invalid cursor")
		}
		query += ` AND (ub.date_added < ? OR (ub.date_added = ? AND ub.book_id > ?))`
		args = append(args, added, added, bookID)
	}
	query += ` ORDER BY ub.date_added DESC, ub.book_id LIMIT ?`
	args = append(args, page.Limit+1)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := &store.PaginatedResult[domain.ShelfEntry]{Items: []domain.ShelfEntry{}}
	for rows.Next() {
		e, err := scanShelfEntry(rows)
		if err != nil {
			return nil, err
		}
		result.Items = append(result.Items, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(result.Items) > page.Limit {
		result.Items = result.Items[:page.Limit]
		last := result.Items[len(result.Items)-1]
		result.HasMore = true
		result.NextCursor = store.EncodeCursor(formatTime(last.DateAdded) + "|" + last.BookID)
	}
	return result, nil
}

// ListBookReviews returns the raw review JSON other readers left on a book.
// Rows without review attributes are skipped.
func (s *Store) ListBookReviews(ctx context.Context, bookID, excludeUserID string) ([][]byte, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT review_attributes FROM user_books
		WHERE book_id = ? AND user_id != ? AND review_attributes IS NOT NULL
		ORDER BY user_id`,
		bookID, excludeUserID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews [][]byte
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		reviews = append(reviews, []byte(raw))
	}
	return reviews, rows.Err()
}
