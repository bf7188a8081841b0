// Package service orchestrates requests: it loads rows from the store,
// runs the insight calculators and applies shelf, session and goal changes.
package service

import (
	"time"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// clock supplies "now" and the location that decides which calendar day it
// is for the reader.
type clock struct {
	now func() time.Time
	loc *time.Location
}

func newClock(loc *time.Location) clock {
	if loc == nil {
		loc = time.UTC
	}
	return clock{now: time.Now, loc: loc}
}

// today is the reader's current calendar day as a day value.
func (c clock) today() time.Time {
	return domain.Today(c.now(), c.loc)
}
