package insights

import (
	"math"
	"sort"
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// ForecastFinish estimates when a book will be finished at its current pace:
// today plus ceil(remaining pages / pages per day).
func ForecastFinish(in domain.ForecastInput, today time.Time) domain.Forecast {
	today = domain.DayOf(today)
	f := domain.Forecast{
		BookID:      in.BookID,
		Title:       in.Title,
		CurrentPage: in.CurrentPage,
		TotalPages:  in.TotalPages,
		PagesPerDay: in.PagesPerDay,
	}

	switch {
	case in.TotalPages <= 0:
		f.Status = domain.ForecastUnknownLength
	case in.CurrentPage >= in.TotalPages:
		f.Status = domain.ForecastComplete
		f.DaysToFinish = ptr(0)
		f.FinishDate = ptr(today)
	case in.PagesPerDay <= 0 || math.IsNaN(in.PagesPerDay) || math.IsInf(in.PagesPerDay, 0):
		f.Status = domain.ForecastNotStarted
	default:
		remaining := in.TotalPages - max(in.CurrentPage, 0)
		days := int(math.Ceil(float64(remaining) / in.PagesPerDay))
		f.Status = domain.ForecastEstimated
		f.DaysToFinish = ptr(days)
		f.FinishDate = ptr(today.AddDate(0, 0, days))
	}
	return f
}

// ForecastAll forecasts every input. Defined forecasts come first, soonest
// first; the rest follow by title.
func ForecastAll(inputs []domain.ForecastInput, today time.Time) []domain.Forecast {
	out := make([]domain.Forecast, 0, len(inputs))
	for _, in := range inputs {
		out = append(out, ForecastFinish(in, today))
	}
	sort.SliceStable(out, func(i, j int) bool { return forecastLess(out[i], out[j]) })
	return out
}

// Soonest returns the defined forecast with the fewest days to finish, ties
// broken by title then book ID.
func Soonest(forecasts []domain.Forecast) (domain.Forecast, bool) {
	var best *domain.Forecast
	for i := range forecasts {
		f := &forecasts[i]
		if !f.Defined() {
			continue
		}
		if best == nil || forecastLess(*f, *best) {
			best = f
		}
	}
	if best == nil {
		return domain.Forecast{}, false
	}
	return *best, true
}

func forecastLess(a, b domain.Forecast) bool {
	if a.Defined() != b.Defined() {
		return a.Defined()
	}
	if a.Defined() && *a.DaysToFinish != *b.DaysToFinish {
		return *a.DaysToFinish < *b.DaysToFinish
	}
	if a.Title != b.Title {
		return a.Title < b.Title
	}
	return a.BookID < b.BookID
}

func ptr[T any](v T) *T { return &v }
