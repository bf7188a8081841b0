package sqlite

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

func logSession(t *testing.T, s *Store, id, userID, bookID string, date time.Time, pages int) {
	t.Helper()
	rs, err := domain.NewReadingSession(id, userID, bookID, date, pages)
	require.NoError(t, err)
	require.NoError(t, s.CreateReadingSession(context.Background(), rs))
}

func TestCreateAndListReadingSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestBook(t, s, "book-1", "Dune", 600)
	insertTestBook(t, s, "book-2", "Emma", 400)

	logSession(t, s, "sess-3", "user-1", "book-1", day(2025, 3, 3), 30)
	logSession(t, s, "sess-1", "user-1", "book-1", day(2025, 3, 1), 10)
	logSession(t, s, "sess-2", "user-1", "book-2", day(2025, 3, 2), 20)
	logSession(t, s, "sess-x", "user-2", "book-1", day(2025, 3, 2), 99)

	all, err := s.ListReadingSessions(ctx, store.SessionFilter{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "sess-1", all[0].ID)
	assert.Equal(t, day(2025, 3, 1), all[0].Date)
	assert.Equal(t, 10, all[0].PagesRead)

	byBook, err := s.ListReadingSessions(ctx, store.SessionFilter{UserID: "user-1", BookID: "book-1"})
	require.NoError(t, err)
	assert.Len(t, byBook, 2)

	ranged, err := s.ListReadingSessions(ctx, store.SessionFilter{UserID: "user-1", From: day(2025, 3, 2), To: day(2025, 3, 2)})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "sess-2", ranged[0].ID)

	none, err := s.ListReadingSessions(ctx, store.SessionFilter{UserID: "nobody"})
	require.NoError(t, err)
	assert.Equal(t, []domain.ReadingSession{}, none)
}

func TestReadingSession_DateKeepsLocalDay(t *testing.T) {
	s := newTestStore(t)
	insertTestBook(t, s, "book-1", "Dune", 600)

	// 23:30 in Tokyo is still the 5th there.
	tokyo := time.FixedZone("JST", 9*3600)
	logSession(t, s, "sess-1", "user-1", "book-1", time.Date(2025, 3, 5, 23, 30, 0, 0, tokyo), 12)

	got, err := s.ListReadingSessions(context.Background(), store.SessionFilter{UserID: "user-1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, day(2025, 3, 5), got[0].Date)
}

func TestReadingSession_Errors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	insertTestBook(t, s, "book-1", "Dune", 600)
	logSession(t, s, "sess-1", "user-1", "book-1", day(2025, 3, 1), 10)

	dup, err := domain.NewReadingSession("sess-1", "user-1", "book-1", day(2025, 3, 2), 5)
	require.NoError(t, err)
	assert.True(t, errors.Is(s.CreateReadingSession(ctx, dup), store.ErrAlreadyExists))

	orphan, err := domain.NewReadingSession("sess-2", "user-1", "missing", day(2025, 3, 2), 5)
	require.NoError(t, err)
	assert.True(t, errors.Is(s.CreateReadingSession(ctx, orphan), store.ErrNotFound))
}

func TestReadingSession_Immutable(t *testing.T) {
	s := newTestStore(t)
	insertTestBook(t, s, "book-1", "Dune", 600)
	logSession(t, s, "sess-1", "user-1", "book-1", day(2025, 3, 1), 10)

	_, err := s.db.ExecContext(context.Background(), `UPDATE reading_sessions SET pages_read = 50 WHERE id = ?`, "sess-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append-only")
}
