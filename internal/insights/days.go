package insights

import (
	"sort"
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// dailyPages sums pages per calendar day, dropping non-positive rows and
// anything after today.
func dailyPages(sessions []domain.ReadingSession, today time.Time) map[time.Time]int {
	days := make(map[time.Time]int)
	for _, s := range sessions {
		if s.PagesRead <= 0 {
			continue
		}
		d := domain.DayOf(s.Date)
		if d.After(today) {
			continue
		}
		days[d] += s.PagesRead
	}
	return days
}

// sortedDays returns the keys of days in ascending order.
func sortedDays(days map[time.Time]int) []time.Time {
	out := make([]time.Time, 0, len(days))
	for d := range days {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// truncate2 floors total/elapsed to two decimals using integer arithmetic so
// the result times elapsed never exceeds total.
func truncate2(total, elapsed int) float64 {
	if elapsed <= 0 || total <= 0 {
		return 0
	}
	return float64(total*100/elapsed) / 100
}

// counter tallies string occurrences and ranks them by count, breaking ties
// alphabetically.
type counter map[string]int

type ranked struct {
	key   string
	count int
}

func (c counter) ranked() []ranked {
	out := make([]ranked, 0, len(c))
	for k, n := range c {
		out = append(out, ranked{key: k, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].key < out[j].key
	})
	return out
}

func (c counter) top() (string, bool) {
	r := c.ranked()
	if len(r) == 0 {
		return "", false
	}
	return r[0].key, true
}
