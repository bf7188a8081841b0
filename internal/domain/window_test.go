package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestInsightWindow_Start(t *testing.T) {
	today := day(2025, 3, 15)

	assert.Equal(t, day(2025, 2, 14), WindowLast30.Start(today))
	assert.Equal(t, day(2025, 1, 1), WindowYTD.Start(today))
	assert.True(t, WindowAllTime.Start(today).IsZero())
}

func TestInsightWindow_Contains(t *testing.T) {
	today := day(2025, 3, 15)

	assert.True(t, WindowLast30.Contains(today, today))
	assert.True(t, WindowLast30.Contains(day(2025, 2, 14), today))
	assert.False(t, WindowLast30.Contains(day(2025, 2, 13), today))
	assert.False(t, WindowYTD.Contains(day(2024, 12, 31), today))
	assert.False(t, WindowAllTime.Contains(day(2025, 3, 16), today))
	assert.True(t, WindowAllTime.Contains(day(1999, 1, 1), today))
}

func TestDayOf_UsesLocalCalendarDay(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	late := time.Date(2025, 3, 15, 23, 30, 0, 0, tokyo)

	assert.Equal(t, day(2025, 3, 15), DayOf(late))
	assert.Equal(t, day(2025, 3, 15), Today(late.UTC(), tokyo))
	assert.Equal(t, day(2025, 3, 15), Today(late.UTC(), nil))
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 0, DaysBetween(day(2025, 3, 1), day(2025, 3, 1)))
	assert.Equal(t, 31, DaysBetween(day(2025, 3, 1), day(2025, 4, 1)))
	assert.Equal(t, -1, DaysBetween(day(2025, 3, 2), day(2025, 3, 1)))
}
