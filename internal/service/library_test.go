package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/errors"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

func ptrTo[T any](v T) *T { return &v }

func TestLibraryService_Add(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	addBook(t, svc.store, "book-dune", "Dune", 600)

	entry, err := svc.library.Add(ctx, "user-1", "book-dune", "")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWantToRead, entry.Status)
	assert.Equal(t, "Dune", entry.Book.Title)
	assert.Nil(t, entry.DateStarted)

	_, err = svc.library.Add(ctx, "user-1", "book-dune", domain.StatusWantToRead)
	assert.ErrorIs(t, err, errors.ErrAlreadyExists)

	_, err = svc.library.Add(ctx, "user-1", "book-missing", domain.StatusWantToRead)
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = svc.library.Add(ctx, "user-1", "book-dune", domain.StatusFinished)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestLibraryService_AddCurrentlyReadingSetsStart(t *testing.T) {
	svc := newTestServices(t)
	addBook(t, svc.store, "book-dune", "Dune", 600)

	entry, err := svc.library.Add(context.Background(), "user-1", "book-dune", domain.StatusCurrentlyReading)
	require.NoError(t, err)
	require.NotNil(t, entry.DateStarted)
	assert.Equal(t, day(3, 15), entry.DateStarted.UTC())
}

func TestLibraryService_List(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	addBook(t, svc.store, "book-a", "A", 100)
	addBook(t, svc.store, "book-b", "B", 100)
	_, err := svc.library.Add(ctx, "user-1", "book-a", domain.StatusWantToRead)
	require.NoError(t, err)
	_, err = svc.library.Add(ctx, "user-1", "book-b", domain.StatusCurrentlyReading)
	require.NoError(t, err)

	all, err := svc.library.List(ctx, "user-1", "", store.PaginationParams{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.False(t, all.HasMore)

	reading, err := svc.library.List(ctx, "user-1", domain.StatusCurrentlyReading, store.PaginationParams{})
	require.NoError(t, err)
	require.Len(t, reading.Items, 1)
	assert.Equal(t, "book-b", reading.Items[0].BookID)

	_, err = svc.library.List(ctx, "user-1", "reading", store.PaginationParams{})
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestLibraryService_UpdateStatus(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	addBook(t, svc.store, "book-dune", "Dune", 600)
	_, err := svc.library.Add(ctx, "user-1", "book-dune", domain.StatusWantToRead)
	require.NoError(t, err)

	entry, err := svc.library.UpdateStatus(ctx, "user-1", "book-dune", domain.StatusCurrentlyReading)
	require.NoError(t, err)
	require.NotNil(t, entry.DateStarted)
	assert.Nil(t, entry.DateFinished)

	entry, err = svc.library.UpdateStatus(ctx, "user-1", "book-dune", domain.StatusFinished)
	require.NoError(t, err)
	require.NotNil(t, entry.DateFinished)
	assert.Equal(t, 600, entry.CurrentPage)

	stored, err := svc.store.GetUserBook(ctx, "user-1", "book-dune")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFinished, stored.Status)
	assert.True(t, stored.Consistent())
}

func TestLibraryService_UpdateStatusRejectsIllegalTransition(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	addBook(t, svc.store, "book-dune", "Dune", 600)
	_, err := svc.library.Add(ctx, "user-1", "book-dune", domain.StatusWantToRead)
	require.NoError(t, err)

	_, err = svc.library.UpdateStatus(ctx, "user-1", "book-dune", domain.StatusFinished)
	assert.ErrorIs(t, err, errors.ErrValidation)

	stored, err := svc.store.GetUserBook(ctx, "user-1", "book-dune")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusWantToRead, stored.Status)
}

func TestLibraryService_Redemption(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	addBook(t, svc.store, "book-dune", "Dune", 600)
	_, err := svc.library.Add(ctx, "user-1", "book-dune", domain.StatusCurrentlyReading)
	require.NoError(t, err)
	_, err = svc.library.UpdateProgress(ctx, "user-1", "book-dune", 120)
	require.NoError(t, err)

	_, err = svc.library.UpdateStatus(ctx, "user-1", "book-dune", domain.StatusDNF)
	require.NoError(t, err)
	entry, err := svc.library.UpdateStatus(ctx, "user-1", "book-dune", domain.StatusWantToRead)
	require.NoError(t, err)

	assert.Nil(t, entry.DateStarted)
	assert.Zero(t, entry.CurrentPage)
}

func TestLibraryService_SameStatusIsNoop(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	addBook(t, svc.store, "book-dune", "Dune", 600)
	added, err := svc.library.Add(ctx, "user-1", "book-dune", domain.StatusWantToRead)
	require.NoError(t, err)

	entry, err := svc.library.UpdateStatus(ctx, "user-1", "book-dune", domain.StatusWantToRead)
	require.NoError(t, err)
	assert.Equal(t, added.UpdatedAt, entry.UpdatedAt)
}

func TestLibraryService_UpdateReview(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	addBook(t, svc.store, "book-dune", "Dune", 600)
	_, err := svc.library.Add(ctx, "user-1", "book-dune", domain.StatusWantToRead)
	require.NoError(t, err)

	entry, err := svc.library.UpdateReview(ctx, "user-1", "book-dune", ReviewUpdate{
		Rating: ptrTo(4.62),
		Moods:  &[]string{" Dark", "tense", "dark"},
		Pacing: ptrTo("Fast"),
		Format: ptrTo("ebook"),
	})
	require.NoError(t, err)
	require.NotNil(t, entry.Rating)
	assert.Equal(t, 4.5, *entry.Rating)
	assert.Equal(t, []string{"dark", "tense"}, entry.ReviewAttributes.Moods)
	assert.Equal(t, domain.PacingFast, entry.ReviewAttributes.Pacing)
	assert.Equal(t, domain.FormatEbook, entry.ReadingFormat)

	// Untouched fields survive a partial update.
	entry, err = svc.library.UpdateReview(ctx, "user-1", "book-dune", ReviewUpdate{Pacing: ptrTo("")})
	require.NoError(t, err)
	assert.Equal(t, 4.5, *entry.Rating)
	assert.Empty(t, entry.ReviewAttributes.Pacing)

	entry, err = svc.library.UpdateReview(ctx, "user-1", "book-dune", ReviewUpdate{ClearRating: true})
	require.NoError(t, err)
	assert.Nil(t, entry.Rating)
}

func TestLibraryService_UpdateReviewRejectsBadInput(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	addBook(t, svc.store, "book-dune", "Dune", 600)
	_, err := svc.library.Add(ctx, "user-1", "book-dune", domain.StatusWantToRead)
	require.NoError(t, err)

	tests := []struct {
		name string
		upd  ReviewUpdate
	}{
		{"rating above five", ReviewUpdate{Rating: ptrTo(5.3)}},
		{"negative rating", ReviewUpdate{Rating: ptrTo(-1.0)}},
		{"unknown pacing", ReviewUpdate{Pacing: ptrTo("glacial")}},
		{"unknown format", ReviewUpdate{Format: ptrTo("scroll")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.library.UpdateReview(ctx, "user-1", "book-dune", tt.upd)
			assert.ErrorIs(t, err, errors.ErrValidation)
		})
	}
}

func TestLibraryService_UpdateProgress(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	addBook(t, svc.store, "book-dune", "Dune", 600)
	_, err := svc.library.Add(ctx, "user-1", "book-dune", domain.StatusCurrentlyReading)
	require.NoError(t, err)

	entry, err := svc.library.UpdateProgress(ctx, "user-1", "book-dune", 250)
	require.NoError(t, err)
	assert.Equal(t, 250, entry.CurrentPage)

	_, err = svc.library.UpdateProgress(ctx, "user-1", "book-dune", 601)
	assert.ErrorIs(t, err, errors.ErrValidation)

	_, err = svc.library.UpdateProgress(ctx, "user-1", "book-dune", -1)
	assert.ErrorIs(t, err, errors.ErrValidation)
}

func TestLibraryService_Remove(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()
	addBook(t, svc.store, "book-dune", "Dune", 600)
	_, err := svc.library.Add(ctx, "user-1", "book-dune", domain.StatusWantToRead)
	require.NoError(t, err)

	require.NoError(t, svc.library.Remove(ctx, "user-1", "book-dune"))

	_, err = svc.library.Get(ctx, "user-1", "book-dune")
	assert.ErrorIs(t, err, errors.ErrNotFound)
	assert.ErrorIs(t, svc.library.Remove(ctx, "user-1", "book-dune"), errors.ErrNotFound)
}
