package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

// readingSessionColumns must match the scan order in scanReadingSession.
const readingSessionColumns = `id, user_id, book_id, date, pages_read, created_at`

func scanReadingSession(scanner interface{ Scan(dest ...any) error }) (*domain.ReadingSession, error) {
	var (
		rs        domain.ReadingSession
		date      string
		createdAt string
	)

	if err := scanner.Scan(&rs.ID, &rs.UserID, &rs.BookID, &date, &rs.PagesRead, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if rs.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	if rs.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &rs, nil
}

// CreateReadingSession appends a reading session.
// Returns store.ErrAlreadyExists if the session ID already exists and
// store.ErrNotFound if the book does not exist.
func (s *Store) CreateReadingSession(ctx context.Context, session *domain.ReadingSession) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO reading_sessions (`+readingSessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.BookID,
		formatDate(session.Date),
		session.PagesRead,
		formatTime(session.CreatedAt),
	)
	switch {
	case isUniqueViolation(err):
		return store.ErrAlreadyExists.WithMessage("reading session already exists")
	case isForeignKeyViolation(err):
		return store.ErrNotFound.WithMessage("book not found")
	case err != nil:
		return fmt.Errorf("insert reading session: %w", err)
	}
	return nil
}

// ListReadingSessions returns sessions matching filter ordered by date, then
// creation time.
func (s *Store) ListReadingSessions(ctx context.Context, filter store.SessionFilter) ([]domain.ReadingSession, error) {
	var (
		where []string
		args  []any
	)
	if filter.UserID != "" {
		where = append(where, "user_id = ?")
		args = append(args, filter.UserID)
	}
	if filter.BookID != "" {
		where = append(where, "book_id = ?")
		args = append(args, filter.BookID)
	}
	if !filter.From.IsZero() {
		where = append(where, "date >= ?")
		args = append(args, formatDate(filter.From))
	}
	if !filter.To.IsZero() {
		where = append(where, "date <= ?")
		args = append(args, formatDate(filter.To))
	}

	query := `SELECT ` + readingSessionColumns + ` FROM reading_sessions`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY date, created_at, id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := []domain.ReadingSession{}
	for rows.Next() {
		rs, err := scanReadingSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *rs)
	}
	return sessions, rows.Err()
}
