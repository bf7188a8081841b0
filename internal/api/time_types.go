package api

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// Date is a calendar day that can unmarshal from either:
//   - a plain day: "2026-03-14"
//   - an RFC3339 timestamp: "2026-03-14T23:30:00+09:00" (its own offset
//     decides the day)
//
// It always marshals to the plain day.
type Date struct {
	time.Time
}

// UnmarshalJSON handles flexible day parsing from JSON.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		d.Time = t
		return nil
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		d.Time = domain.DayOf(t)
		return nil
	}
	return fmt.Errorf("cannot parse date %q, expected YYYY-MM-DD or RFC3339", s)
}

// MarshalJSON outputs the day as YYYY-MM-DD.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(domain.DateLayout))
}

// Schema describes Date as a string so huma accepts both input forms.
func (Date) Schema(huma.Registry) *huma.Schema {
	return &huma.Schema{
		Type:        huma.TypeString,
		Description: "Calendar day as YYYY-MM-DD or an RFC3339 timestamp",
		Examples:    []any{"2026-03-14"},
	}
}

// Day returns the calendar day, or the zero time when unset.
func (d *Date) Day() time.Time {
	if d == nil || d.IsZero() {
		return time.Time{}
	}
	return domain.DayOf(d.Time)
}

// parseDayParam parses an optional YYYY-MM-DD query parameter.
func parseDayParam(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", name, err)
	}
	return t, nil
}
