package domain

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/errors"
)

func TestNormalizeRating(t *testing.T) {
	tests := []struct {
		in      float64
		want    float64
		wantErr bool
	}{
		{4.62, 4.5, false},
		{4.63, 4.75, false},
		{0, 0, false},
		{5, 5, false},
		{3.125, 3.25, false},
		{0.1, 0, false},
		{5.3, 0, true},
		{-0.5, 0, true},
		{math.NaN(), 0, true},
		{math.Inf(1), 0, true},
	}

	for _, tt := range tests {
		got, err := NormalizeRating(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %v", tt.in)
			assert.True(t, errors.Is(err, errors.ErrValidation))
			continue
		}
		require.NoError(t, err, "input %v", tt.in)
		assert.InDelta(t, tt.want, got, 1e-9, "input %v", tt.in)
	}
}

func TestReadingStatus_CanTransitionTo(t *testing.T) {
	allowed := map[[2]ReadingStatus]bool{
		{StatusWantToRead, StatusCurrentlyReading}: true,
		{StatusCurrentlyReading, StatusFinished}:   true,
		{StatusCurrentlyReading, StatusPaused}:     true,
		{StatusCurrentlyReading, StatusDNF}:        true,
		{StatusPaused, StatusWantToRead}:           true,
		{StatusPaused, StatusCurrentlyReading}:     true,
		{StatusDNF, StatusWantToRead}:              true,
	}
	all := []ReadingStatus{StatusWantToRead, StatusCurrentlyReading, StatusFinished, StatusPaused, StatusDNF}

	for _, from := range all {
		for _, to := range all {
			want := from == to || allowed[[2]ReadingStatus{from, to}]
			assert.Equal(t, want, from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestUserBook_Lifecycle(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)

	ub, err := NewUserBook("user-1", "book-1", "", now)
	require.NoError(t, err)
	assert.Equal(t, StatusWantToRead, ub.Status)
	assert.True(t, ub.Consistent())

	changed, err := ub.TransitionTo(StatusCurrentlyReading, now)
	require.NoError(t, err)
	assert.True(t, changed)
	require.NotNil(t, ub.DateStarted)
	assert.Equal(t, DayOf(now), *ub.DateStarted)
	assert.True(t, ub.Consistent())

	later := now.AddDate(0, 0, 12)
	_, err = ub.TransitionTo(StatusFinished, later)
	require.NoError(t, err)
	require.NotNil(t, ub.DateFinished)
	assert.Equal(t, DayOf(later), *ub.DateFinished)
	assert.Equal(t, DayOf(now), *ub.DateStarted)
	assert.True(t, ub.Consistent())

	// finished is terminal
	_, err = ub.TransitionTo(StatusWantToRead, later)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Equal(t, StatusFinished, ub.Status)
}

func TestUserBook_Redemption(t *testing.T) {
	now := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	ub, err := NewUserBook("user-1", "book-1", StatusCurrentlyReading, now)
	require.NoError(t, err)
	ub.CurrentPage = 80

	_, err = ub.TransitionTo(StatusDNF, now)
	require.NoError(t, err)
	assert.NotNil(t, ub.DateStarted)
	assert.Nil(t, ub.DateFinished)
	assert.True(t, ub.Consistent())

	_, err = ub.TransitionTo(StatusWantToRead, now)
	require.NoError(t, err)
	assert.Nil(t, ub.DateStarted)
	assert.Zero(t, ub.CurrentPage)
	assert.True(t, ub.Consistent())
}

func TestUserBook_SameStatusIsNoop(t *testing.T) {
	now := time.Now()
	ub, err := NewUserBook("u", "b", StatusCurrentlyReading, now)
	require.NoError(t, err)

	changed, err := ub.TransitionTo(StatusCurrentlyReading, now.Add(time.Hour))
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, now, ub.UpdatedAt)
}

func TestNewUserBook_RejectsTerminalStatus(t *testing.T) {
	_, err := NewUserBook("u", "b", StatusFinished, time.Now())
	assert.Error(t, err)
}

func TestUserBook_ValidRating(t *testing.T) {
	ub := &UserBook{}
	_, ok := ub.ValidRating()
	assert.False(t, ok)

	bad := 7.0
	ub.Rating = &bad
	_, ok = ub.ValidRating()
	assert.False(t, ok)

	good := 4.75
	ub.Rating = &good
	r, ok := ub.ValidRating()
	assert.True(t, ok)
	assert.Equal(t, 4.75, r)
}
