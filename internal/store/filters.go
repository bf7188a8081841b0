package store

import (
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// SessionFilter narrows reading session queries. Zero fields are ignored;
// From and To are inclusive calendar days.
type SessionFilter struct {
	UserID string
	BookID string
	From   time.Time
	To     time.Time
}

// ShelfFilter narrows shelf queries.
type ShelfFilter struct {
	Status domain.ReadingStatus
	BookID string
}
