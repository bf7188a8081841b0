package insights

import (
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// ComputeVelocity summarizes pace and streaks for window, ending on today.
//
// PagesPerDay divides the pages read inside the window by the window's
// elapsed calendar days (rest days included) and is truncated to two
// decimals. WeeklyTotal always covers the seven days ending today. Streaks
// look at the whole history passed in; sessions dated after today are
// ignored everywhere. With no sessions every field is zero.
func ComputeVelocity(sessions []domain.ReadingSession, window domain.InsightWindow, today time.Time) domain.Velocity {
	today = domain.DayOf(today)
	v := domain.Velocity{Window: window}

	days := dailyPages(sessions, today)
	if len(days) == 0 {
		return v
	}
	ordered := sortedDays(days)

	v.ElapsedDays = elapsedDays(window, today, ordered[0])
	weekStart := today.AddDate(0, 0, -6)
	for d, pages := range days {
		if window.Contains(d, today) {
			v.TotalPages += pages
			v.ActiveDays++
		}
		if !d.Before(weekStart) {
			v.WeeklyTotal += pages
		}
	}
	v.PagesPerDay = truncate2(v.TotalPages, v.ElapsedDays)
	v.CurrentStreak = currentStreak(days, today)
	v.BestStreak = bestStreak(ordered)
	return v
}

// elapsedDays returns the number of calendar days the window spans. For
// all-time it runs from the first session to today inclusive, and is zero
// when there are no sessions.
func elapsedDays(window domain.InsightWindow, today, first time.Time) int {
	switch window {
	case domain.WindowLast30:
		return 30
	case domain.WindowYTD:
		return today.YearDay()
	default:
		if first.IsZero() {
			return 0
		}
		return domain.DaysBetween(first, today) + 1
	}
}

// currentStreak walks back from today while each day has pages.
func currentStreak(days map[time.Time]int, today time.Time) int {
	streak := 0
	for d := today; days[d] > 0; d = d.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// bestStreak finds the longest run of consecutive days in ordered.
func bestStreak(ordered []time.Time) int {
	if len(ordered) == 0 {
		return 0
	}
	best, run := 1, 1
	for i := 1; i < len(ordered); i++ {
		if domain.DaysBetween(ordered[i-1], ordered[i]) == 1 {
			run++
		} else {
			run = 1
		}
		best = max(best, run)
	}
	return best
}
