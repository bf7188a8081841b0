package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

func TestLibrary_AddAndGet(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.addBook(t, "book-dune", "Dune", 604)
	user := ts.authHeader(t, "user-1")

	resp := ts.api.Put("/api/v1/library/book-dune", user, map[string]any{})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	env := decodeEnvelope[domain.ShelfEntry](t, resp.Body.Bytes())
	assert.Equal(t, domain.StatusWantToRead, env.Data.Status)
	assert.Equal(t, "Dune", env.Data.Book.Title)
	assert.Nil(t, env.Data.DateStarted)

	resp = ts.api.Get("/api/v1/library/book-dune", user)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "book-dune", decodeEnvelope[domain.ShelfEntry](t, resp.Body.Bytes()).Data.BookID)

	// Someone else's shelf is separate.
	resp = ts.api.Get("/api/v1/library/book-dune", ts.authHeader(t, "user-2"))
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestLibrary_AddErrors(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.addBook(t, "book-dune", "Dune", 604)
	user := ts.authHeader(t, "user-1")

	resp := ts.api.Put("/api/v1/library/book-dune", user, map[string]any{"status": "currently-reading"})
	require.Equal(t, http.StatusCreated, resp.Code)
	assert.NotNil(t, decodeEnvelope[domain.ShelfEntry](t, resp.Body.Bytes()).Data.DateStarted)

	tests := []struct {
		name   string
		path   string
		body   map[string]any
		status int
		code   string
	}{
		{"duplicate", "/api/v1/library/book-dune", map[string]any{}, http.StatusConflict, "ALREADY_EXISTS"},
		{"unknown book", "/api/v1/library/book-missing", map[string]any{}, http.StatusNotFound, "NOT_FOUND"},
		{"finished on add", "/api/v1/library/book-dune", map[string]any{"status": "finished"}, http.StatusBadRequest, "VALIDATION"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := ts.api.Put(tt.path, user, tt.body)
			require.Equal(t, tt.status, resp.Code, resp.Body.String())
			env := decodeEnvelope[any](t, resp.Body.Bytes())
			require.NotNil(t, env.Error)
			assert.Equal(t, tt.code, env.Error.Code)
		})
	}
}

func TestLibrary_List(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.addBook(t, "book-dune", "Dune", 604)
	ts.addBook(t, "book-emma", "Emma", 474)
	user := ts.authHeader(t, "user-1")

	ts.api.Put("/api/v1/library/book-dune", user, map[string]any{"status": "currently-reading"})
	ts.api.Put("/api/v1/library/book-emma", user, map[string]any{})

	resp := ts.api.Get("/api/v1/library", user)
	require.Equal(t, http.StatusOK, resp.Code)
	all := decodeEnvelope[store.PaginatedResult[domain.ShelfEntry]](t, resp.Body.Bytes())
	assert.Len(t, all.Data.Items, 2)
	assert.False(t, all.Data.HasMore)

	resp = ts.api.Get("/api/v1/library?status=currently-reading", user)
	require.Equal(t, http.StatusOK, resp.Code)
	reading := decodeEnvelope[store.PaginatedResult[domain.ShelfEntry]](t, resp.Body.Bytes())
	require.Len(t, reading.Data.Items, 1)
	assert.Equal(t, "book-dune", reading.Data.Items[0].BookID)

	resp = ts.api.Get("/api/v1/library?limit=1", user)
	require.Equal(t, http.StatusOK, resp.Code)
	page := decodeEnvelope[store.PaginatedResult[domain.ShelfEntry]](t, resp.Body.Bytes())
	assert.Len(t, page.Data.Items, 1)
	assert.True(t, page.Data.HasMore)
	assert.NotEmpty(t, page.Data.NextCursor)

	resp = ts.api.Get("/api/v1/library?status=shelved", user)
	require.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, "VALIDATION", decodeEnvelope[any](t, resp.Body.Bytes()).Error.Code)
}

func TestLibrary_StatusFlow(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.addBook(t, "book-dune", "Dune", 604)
	user := ts.authHeader(t, "user-1")
	ts.api.Put("/api/v1/library/book-dune", user, map[string]any{})

	resp := ts.api.Patch("/api/v1/library/book-dune/status", user, map[string]any{"status": "finished"})
	require.Equal(t, http.StatusBadRequest, resp.Code, "want-to-read cannot jump to finished")

	resp = ts.api.Patch("/api/v1/library/book-dune/status", user, map[string]any{"status": "currently-reading"})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Patch("/api/v1/library/book-dune/status", user, map[string]any{"status": "finished"})
	require.Equal(t, http.StatusOK, resp.Code)
	entry := decodeEnvelope[domain.ShelfEntry](t, resp.Body.Bytes()).Data
	assert.Equal(t, domain.StatusFinished, entry.Status)
	assert.Equal(t, 604, entry.CurrentPage)
	assert.NotNil(t, entry.DateFinished)

	resp = ts.api.Patch("/api/v1/library/book-dune/status", user, map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLibrary_Review(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.addBook(t, "book-dune", "Dune", 604)
	user := ts.authHeader(t, "user-1")
	ts.api.Put("/api/v1/library/book-dune", user, map[string]any{})

	resp := ts.api.Patch("/api/v1/library/book-dune/review", user, map[string]any{
		"rating": 4.6,
		"moods":  []string{"Tense", "dark"},
		"pacing": "fast",
		"format": "ebook",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	entry := decodeEnvelope[domain.ShelfEntry](t, resp.Body.Bytes()).Data
	require.NotNil(t, entry.Rating)
	assert.InDelta(t, 4.5, *entry.Rating, 0.001)
	assert.Equal(t, []string{"dark", "tense"}, entry.ReviewAttributes.Moods)
	assert.Equal(t, domain.PacingFast, entry.ReviewAttributes.Pacing)
	assert.Equal(t, domain.FormatEbook, entry.ReadingFormat)

	resp = ts.api.Patch("/api/v1/library/book-dune/review", user, map[string]any{"clear_rating": true})
	require.Equal(t, http.StatusOK, resp.Code)
	entry = decodeEnvelope[domain.ShelfEntry](t, resp.Body.Bytes()).Data
	assert.Nil(t, entry.Rating)
	assert.Equal(t, domain.PacingFast, entry.ReviewAttributes.Pacing, "untouched fields are kept")

	resp = ts.api.Patch("/api/v1/library/book-dune/review", user, map[string]any{"format": "scroll"})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Patch("/api/v1/library/book-dune/review", user, map[string]any{"rating": 7})
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestLibrary_ProgressAndRemove(t *testing.T) {
	ts := newTestServer(t, Options{})
	ts.addBook(t, "book-dune", "Dune", 604)
	user := ts.authHeader(t, "user-1")
	ts.api.Put("/api/v1/library/book-dune", user, map[string]any{"status": "currently-reading"})

	resp := ts.api.Patch("/api/v1/library/book-dune/progress", user, map[string]any{"current_page": 120})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, 120, decodeEnvelope[domain.ShelfEntry](t, resp.Body.Bytes()).Data.CurrentPage)

	resp = ts.api.Patch("/api/v1/library/book-dune/progress", user, map[string]any{"current_page": 700})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	resp = ts.api.Delete("/api/v1/library/book-dune", user)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Delete("/api/v1/library/book-dune", user)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
