package domain

import "time"

// InsightWindow is the span of history an insight covers.
type InsightWindow string

// Insight windows.
const (
	WindowLast30  InsightWindow = "last30"
	WindowYTD     InsightWindow = "ytd"
	WindowAllTime InsightWindow = "all"
)

// Valid returns true if the window is a recognized value.
func (w InsightWindow) Valid() bool {
	switch w {
	case WindowLast30, WindowYTD, WindowAllTime:
		return true
	}
	return false
}

// Label returns a human-readable name.
func (w InsightWindow) Label() string {
	switch w {
	case WindowLast30:
		return "last 30 days"
	case WindowYTD:
		return "year to date"
	case WindowAllTime:
		return "all time"
	}
	return string(w)
}

// Start returns the first day included in the window ending on today.
// All-time windows start at the zero time. Both today and the result are day
// values (see DayOf).
func (w InsightWindow) Start(today time.Time) time.Time {
	switch w {
	case WindowLast30:
		return today.AddDate(0, 0, -29)
	case WindowYTD:
		return time.Date(today.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return time.Time{}
	}
}

// Contains reports whether day falls inside the window ending on today.
func (w InsightWindow) Contains(day, today time.Time) bool {
	if day.After(today) {
		return false
	}
	return !day.Before(w.Start(today))
}
