package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

func TestSessions_LogAndList(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.addBook(t, "book-dune", "Dune", 604)
	user := ts.authHeader(t, "user-1")
	ts.api.Put("/api/v1/library/book-dune", user, map[string]any{"status": "currently-reading"})

	today := domain.Today(time.Now(), time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	resp := ts.api.Post("/api/v1/sessions", user, map[string]any{
		"book_id":    "book-dune",
		"date":       yesterday.Format(domain.DateLayout),
		"pages_read": 30,
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	session := decodeEnvelope[domain.ReadingSession](t, resp.Body.Bytes()).Data
	assert.NotEmpty(t, session.ID)
	assert.True(t, session.Date.Equal(yesterday))
	assert.Equal(t, 30, session.PagesRead)

	// No date means today.
	resp = ts.api.Post("/api/v1/sessions", user, map[string]any{"book_id": "book-dune", "pages_read": 12})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	assert.True(t, decodeEnvelope[domain.ReadingSession](t, resp.Body.Bytes()).Data.Date.Equal(today))

	resp = ts.api.Get("/api/v1/library/book-dune", user)
	assert.Equal(t, 42, decodeEnvelope[domain.ShelfEntry](t, resp.Body.Bytes()).Data.CurrentPage)

	resp = ts.api.Get("/api/v1/sessions", user)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Len(t, decodeEnvelope[ListSessionsResponse](t, resp.Body.Bytes()).Data.Sessions, 2)

	resp = ts.api.Get("/api/v1/sessions?from="+today.Format(domain.DateLayout), user)
	require.Equal(t, http.StatusOK, resp.Code)
	filtered := decodeEnvelope[ListSessionsResponse](t, resp.Body.Bytes()).Data.Sessions
	require.Len(t, filtered, 1)
	assert.Equal(t, 12, filtered[0].PagesRead)

	resp = ts.api.Get("/api/v1/sessions?book_id=book-other", user)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Empty(t, decodeEnvelope[ListSessionsResponse](t, resp.Body.Bytes()).Data.Sessions)
}

func TestSessions_LogRejects(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.addBook(t, "book-dune", "Dune", 604)
	ts.addBook(t, "book-emma", "Emma", 474)
	user := ts.authHeader(t, "user-1")
	ts.api.Put("/api/v1/library/book-dune", user, map[string]any{})

	tomorrow := domain.Today(time.Now(), time.UTC).AddDate(0, 0, 1).Format(domain.DateLayout)

	tests := []struct {
		name   string
		body   map[string]any
		status int
	}{
		{"future day", map[string]any{"book_id": "book-dune", "date": tomorrow, "pages_read": 10}, http.StatusBadRequest},
		{"no pages", map[string]any{"book_id": "book-dune", "pages_read": 0}, http.StatusBadRequest},
		{"missing book id", map[string]any{"pages_read": 10}, http.StatusBadRequest},
		{"bad date", map[string]any{"book_id": "book-dune", "date": "15/03/2026", "pages_read": 10}, http.StatusBadRequest},
		{"not shelved", map[string]any{"book_id": "book-emma", "pages_read": 10}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Post("/api/v1/sessions", user, tt.body)
			assert.Equal(t, tt.status, resp.Code, resp.Body.String())
			assert.False(t, decodeEnvelope[any](t, resp.Body.Bytes()).Success)
		})
	}
}

func TestSessions_ListRejectsBadRange(t *testing.T) {
	ts := newTestServer(t, Options{})
	user := ts.authHeader(t, "user-1")

	resp := ts.api.Get("/api/v1/sessions?from=yesterday", user)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeEnvelope[any](t, resp.Body.Bytes()).Error.Code)

	resp = ts.api.Get("/api/v1/sessions?from=2026-03-10&to=2026-03-01", user)
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
