package insights

import (
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

const (
	// StreakCalendarDays is the span of the streak calendar: 12 weeks.
	StreakCalendarDays = 84
	// MaxSeriesDays caps the all-time pages chart.
	MaxSeriesDays = 365
)

// DailyPagesSeries returns one zero-filled point per day of window, oldest
// first. All-time series start at the first session, capped to the last
// MaxSeriesDays days; with no sessions they are empty.
func DailyPagesSeries(sessions []domain.ReadingSession, window domain.InsightWindow, today time.Time) []domain.DailyPages {
	today = domain.DayOf(today)
	days := dailyPages(sessions, today)

	start := window.Start(today)
	if window == domain.WindowAllTime {
		if len(days) == 0 {
			return []domain.DailyPages{}
		}
		start = sortedDays(days)[0]
		if earliest := today.AddDate(0, 0, -(MaxSeriesDays - 1)); start.Before(earliest) {
			start = earliest
		}
	}

	series := make([]domain.DailyPages, 0, domain.DaysBetween(start, today)+1)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		series = append(series, domain.DailyPages{Date: d, Pages: days[d]})
	}
	return series
}

// StreakCalendar returns the last StreakCalendarDays days ending today with
// an intensity from 1 to 4 scaled against the busiest day, and 0 for days
// without reading.
func StreakCalendar(sessions []domain.ReadingSession, today time.Time) []domain.StreakDay {
	today = domain.DayOf(today)
	start := today.AddDate(0, 0, -(StreakCalendarDays - 1))
	days := dailyPages(sessions, today)

	busiest := 0
	for d, pages := range days {
		if !d.Before(start) && pages > busiest {
			busiest = pages
		}
	}

	calendar := make([]domain.StreakDay, 0, StreakCalendarDays)
	for d := start; !d.After(today); d = d.AddDate(0, 0, 1) {
		pages := days[d]
		intensity := 0
		if pages > 0 && busiest > 0 {
			intensity = min(int(float64(pages)/float64(busiest)*3)+1, 4)
		}
		calendar = append(calendar, domain.StreakDay{
			Date:      d,
			HasRead:   pages > 0,
			Pages:     pages,
			Intensity: intensity,
		})
	}
	return calendar
}

// DashboardInput carries everything the dashboard is built from.
type DashboardInput struct {
	Window   domain.InsightWindow
	Today    time.Time
	Sessions []domain.ReadingSession
	Shelf    []domain.ShelfEntry
	Goals    []domain.ReadingGoal
}

// BuildDashboard assembles every insight card from one set of rows.
func BuildDashboard(in DashboardInput) domain.Dashboard {
	today := domain.DayOf(in.Today)
	velocity := ComputeVelocity(in.Sessions, in.Window, today)
	forecasts := ForecastAll(ForecastInputs(in.Shelf, velocity.PagesPerDay), today)

	d := domain.Dashboard{
		Window:         in.Window,
		Today:          today,
		Velocity:       velocity,
		Forecasts:      forecasts,
		Goals:          GoalProgressAll(in.Goals, GoalInputs{Sessions: in.Sessions, Shelf: in.Shelf}, today),
		DailyPages:     DailyPagesSeries(in.Sessions, in.Window, today),
		StreakCalendar: StreakCalendar(in.Sessions, today),
	}
	if s, ok := Soonest(forecasts); ok {
		d.Soonest = &s
	}
	if combo, ok := WinningCombo(ComboBooksFromShelf(in.Shelf)); ok {
		d.Combo = combo
	}
	return d
}

// ForecastInputs builds forecast inputs for every currently-reading book on
// the shelf, all paced at the reader's overall pages per day.
func ForecastInputs(shelf []domain.ShelfEntry, pagesPerDay float64) []domain.ForecastInput {
	var out []domain.ForecastInput
	for _, e := range shelf {
		if e.Status != domain.StatusCurrentlyReading {
			continue
		}
		out = append(out, domain.ForecastInput{
			BookID:      e.BookID,
			Title:       e.Book.Title,
			CurrentPage: e.CurrentPage,
			TotalPages:  e.Book.PageCount,
			PagesPerDay: pagesPerDay,
		})
	}
	return out
}
