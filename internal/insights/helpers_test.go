package insights

import (
	"fmt"
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

var testToday = time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testToday.AddDate(0, 0, -n)
}

func session(bookID string, date time.Time, pages int) domain.ReadingSession {
	return domain.ReadingSession{
		ID:        fmt.Sprintf("sess-%s-%s-%d", bookID, date.Format(domain.DateLayout), pages),
		UserID:    "user-1",
		BookID:    bookID,
		Date:      domain.DayOf(date),
		PagesRead: pages,
	}
}

func rating(r float64) *float64 { return &r }
