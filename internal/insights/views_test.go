package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

func TestDailyPagesSeries_ZeroFilled(t *testing.T) {
	sessions := []domain.ReadingSession{
		session("b1", daysAgo(2), 10),
		session("b2", daysAgo(2), 5),
		session("b1", daysAgo(0), 7),
	}

	series := DailyPagesSeries(sessions, domain.WindowLast30, testToday)
	require.Len(t, series, 30)
	assert.Equal(t, daysAgo(29), series[0].Date)
	assert.Equal(t, testToday, series[29].Date)
	assert.Equal(t, 15, series[27].Pages)
	assert.Equal(t, 0, series[28].Pages)
	assert.Equal(t, 7, series[29].Pages)
}

func TestDailyPagesSeries_YTD(t *testing.T) {
	series := DailyPagesSeries(nil, domain.WindowYTD, testToday)
	assert.Len(t, series, 74)
}

func TestDailyPagesSeries_AllTime(t *testing.T) {
	assert.Empty(t, DailyPagesSeries(nil, domain.WindowAllTime, testToday))

	series := DailyPagesSeries([]domain.ReadingSession{session("b1", daysAgo(4), 3)}, domain.WindowAllTime, testToday)
	assert.Len(t, series, 5)

	series = DailyPagesSeries([]domain.ReadingSession{session("b1", daysAgo(900), 3)}, domain.WindowAllTime, testToday)
	assert.Len(t, series, MaxSeriesDays)
	assert.Equal(t, daysAgo(MaxSeriesDays-1), series[0].Date)
}

func TestStreakCalendar(t *testing.T) {
	sessions := []domain.ReadingSession{
		session("b1", daysAgo(0), 100),
		session("b1", daysAgo(1), 50),
		session("b1", daysAgo(2), 1),
		session("b1", daysAgo(100), 1000), // outside the calendar
	}

	cal := StreakCalendar(sessions, testToday)
	require.Len(t, cal, StreakCalendarDays)
	assert.Equal(t, daysAgo(StreakCalendarDays-1), cal[0].Date)

	last := cal[len(cal)-1]
	assert.True(t, last.HasRead)
	assert.Equal(t, 4, last.Intensity)
	assert.Equal(t, 2, cal[len(cal)-2].Intensity)
	assert.Equal(t, 1, cal[len(cal)-3].Intensity)
	assert.Equal(t, 0, cal[len(cal)-4].Intensity)
	assert.False(t, cal[len(cal)-4].HasRead)
}

func TestBuildDashboard(t *testing.T) {
	started := daysAgo(10)
	shelf := []domain.ShelfEntry{
		{
			UserBook: domain.UserBook{BookID: "b1", Status: domain.StatusCurrentlyReading, CurrentPage: 100, DateStarted: &started},
			Book:     domain.Book{ID: "b1", Title: "Dune", PageCount: 400},
		},
		{
			UserBook: domain.UserBook{BookID: "b2", Status: domain.StatusWantToRead},
			Book:     domain.Book{ID: "b2", Title: "Emma", PageCount: 300},
		},
		{
			UserBook: func() domain.UserBook {
				ub := finishedEntry("b3", daysAgo(20), "Fantasy").UserBook
				ub.Rating = rating(5)
				ub.ReviewAttributes = domain.ReviewAttributes{Pacing: domain.PacingFast}
				return ub
			}(),
			Book: domain.Book{ID: "b3", Title: "Hobbit", PageCount: 300, Subjects: []string{"Fantasy"}},
		},
	}
	sessions := []domain.ReadingSession{
		session("b1", daysAgo(1), 50),
		session("b1", daysAgo(0), 50),
	}
	goals := []domain.ReadingGoal{{Type: domain.GoalPages, Target: 1000, Year: 2025}}

	d := BuildDashboard(DashboardInput{
		Window:   domain.WindowLast30,
		Today:    testToday,
		Sessions: sessions,
		Shelf:    shelf,
		Goals:    goals,
	})

	assert.Equal(t, 2, d.Velocity.CurrentStreak)
	require.Len(t, d.Forecasts, 1)
	require.NotNil(t, d.Soonest)
	assert.Equal(t, "b1", d.Soonest.BookID)
	require.NotNil(t, d.Soonest.DaysToFinish)
	assert.Equal(t, 91, *d.Soonest.DaysToFinish) // 300 pages at 3.33/day over the window
	require.NotNil(t, d.Combo)
	assert.Equal(t, "Fast", d.Combo.Pacing)
	require.Len(t, d.Goals, 1)
	assert.Equal(t, 100, d.Goals[0].Current)
	assert.Len(t, d.DailyPages, 30)
	assert.Len(t, d.StreakCalendar, StreakCalendarDays)
}

func TestBuildDashboard_ForecastsUseOverallPace(t *testing.T) {
	var sessions []domain.ReadingSession
	for n := range 30 {
		sessions = append(sessions, session("a", daysAgo(n), 25))
	}
	shelf := []domain.ShelfEntry{
		{
			UserBook: domain.UserBook{BookID: "a", Status: domain.StatusFinished},
			Book:     domain.Book{ID: "a", Title: "Anathem", PageCount: 750},
		},
		{
			UserBook: domain.UserBook{BookID: "b", Status: domain.StatusCurrentlyReading, CurrentPage: 150},
			Book:     domain.Book{ID: "b", Title: "Blindsight", PageCount: 300},
		},
	}

	d := BuildDashboard(DashboardInput{Window: domain.WindowLast30, Today: testToday, Sessions: sessions, Shelf: shelf})

	assert.InDelta(t, 25.0, d.Velocity.PagesPerDay, 1e-9)
	require.Len(t, d.Forecasts, 1)
	f := d.Forecasts[0]
	assert.Equal(t, "b", f.BookID)
	assert.Equal(t, domain.ForecastEstimated, f.Status)
	assert.InDelta(t, 25.0, f.PagesPerDay, 1e-9)
	require.NotNil(t, f.DaysToFinish)
	assert.Equal(t, 6, *f.DaysToFinish)
	assert.Equal(t, testToday.AddDate(0, 0, 6), *f.FinishDate)
}

func TestForecastInputs(t *testing.T) {
	shelf := []domain.ShelfEntry{
		{UserBook: domain.UserBook{BookID: "b1", Status: domain.StatusCurrentlyReading, CurrentPage: 150}, Book: domain.Book{Title: "Dune", PageCount: 300}},
		{UserBook: domain.UserBook{BookID: "b2", Status: domain.StatusPaused, CurrentPage: 10}, Book: domain.Book{Title: "Emma", PageCount: 300}},
	}

	inputs := ForecastInputs(shelf, 25)
	assert.Equal(t, []domain.ForecastInput{
		{BookID: "b1", Title: "Dune", CurrentPage: 150, TotalPages: 300, PagesPerDay: 25},
	}, inputs)
}
