package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/logger"
	"github.com/shelfnote/shelfnote-server/internal/store/sqlite"
)

// testNow is "now" for every service under test: midday, 15 March 2026.
var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() clock {
	return clock{now: func() time.Time { return testNow }, loc: time.UTC}
}

func day(m time.Month, d int) time.Time {
	return time.Date(2026, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "service.db"), logger.Discard().Logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func addBook(t *testing.T, s *sqlite.Store, id, title string, pages int, subjects ...string) *domain.Book {
	t.Helper()
	b, err := s.UpsertBook(context.Background(), &domain.Book{
		ID:         id,
		ExternalID: "/works/" + id,
		Title:      title,
		Authors:    []string{"Author of " + title},
		Subjects:   subjects,
		PageCount:  pages,
	})
	require.NoError(t, err)
	return b
}

type testServices struct {
	store    *sqlite.Store
	library  *LibraryService
	sessions *SessionService
	goals    *GoalService
	insights *InsightsService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	s := newTestStore(t)
	log := logger.Discard().Logger

	svc := &testServices{
		store:    s,
		library:  NewLibraryService(s, time.UTC, log),
		sessions: NewSessionService(s, time.UTC, log),
		goals:    NewGoalService(s, time.UTC, log),
		insights: NewInsightsService(s, time.UTC, log),
	}
	svc.library.clock = fixedClock()
	svc.sessions.clock = fixedClock()
	svc.goals.clock = fixedClock()
	svc.insights.clock = fixedClock()
	return svc
}
