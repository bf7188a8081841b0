package insights

import (
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/genre"
)

// GoalInputs are the rows goal progress is measured against.
type GoalInputs struct {
	Sessions []domain.ReadingSession
	Shelf    []domain.ShelfEntry
}

// GoalProgress measures a yearly goal:
//
//	books        books finished during the year
//	pages        pages logged during the year
//	genres       distinct subjects among books finished during the year
//	consistency  distinct days with reading during the year
//
// ExpectedByNow assumes an even pace through the year.
func GoalProgress(goal domain.ReadingGoal, in GoalInputs, today time.Time) domain.GoalProgress {
	today = domain.DayOf(today)
	current := goalCurrent(goal, in, today)

	goal.Current = current
	p := domain.GoalProgress{
		Goal:          goal,
		Current:       current,
		ExpectedByNow: expectedByNow(goal, today),
		Completed:     goal.Target > 0 && current >= goal.Target,
	}
	if goal.Target > 0 {
		p.Percent = min(100, current*100/goal.Target)
	}
	p.OnTrack = current >= p.ExpectedByNow
	return p
}

// GoalProgressAll measures every goal, keeping input order.
func GoalProgressAll(goals []domain.ReadingGoal, in GoalInputs, today time.Time) []domain.GoalProgress {
	out := make([]domain.GoalProgress, 0, len(goals))
	for _, g := range goals {
		out = append(out, GoalProgress(g, in, today))
	}
	return out
}

func goalCurrent(goal domain.ReadingGoal, in GoalInputs, today time.Time) int {
	switch goal.Type {
	case domain.GoalBooks:
		return len(finishedIn(in.Shelf, goal.Year))
	case domain.GoalPages:
		total := 0
		for d, pages := range dailyPages(in.Sessions, today) {
			if d.Year() == goal.Year {
				total += pages
			}
		}
		return total
	case domain.GoalGenres:
		seen := map[string]struct{}{}
		for _, e := range finishedIn(in.Shelf, goal.Year) {
			for _, slug := range genre.NormalizeAll(e.Book.Subjects) {
				seen[slug] = struct{}{}
			}
		}
		return len(seen)
	case domain.GoalConsistency:
		n := 0
		for d := range dailyPages(in.Sessions, today) {
			if d.Year() == goal.Year {
				n++
			}
		}
		return n
	}
	return 0
}

func finishedIn(shelf []domain.ShelfEntry, year int) []domain.ShelfEntry {
	var out []domain.ShelfEntry
	for _, e := range shelf {
		if e.Status == domain.StatusFinished && e.DateFinished != nil && e.DateFinished.Year() == year {
			out = append(out, e)
		}
	}
	return out
}

// expectedByNow is the share of the target due by today on an even pace.
func expectedByNow(goal domain.ReadingGoal, today time.Time) int {
	switch {
	case today.Year() < goal.Year:
		return 0
	case today.Year() > goal.Year:
		return goal.Target
	}
	daysInYear := time.Date(goal.Year, 12, 31, 0, 0, 0, 0, time.UTC).YearDay()
	return goal.Target * today.YearDay() / daysInYear
}
