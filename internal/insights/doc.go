// Package insights computes reading insights from already-fetched rows.
//
// Every function here is pure: callers pass sessions, shelf entries and goals
// plus the calendar day to treat as today, and get a plain value back. Empty
// input yields an explicit empty result rather than an error, and malformed
// rows (non-positive page counts, out-of-range ratings, unknown labels) are
// skipped.
//
// All day values are UTC midnights produced by domain.DayOf. Frequency ties
// are broken alphabetically so results never depend on map order.
package insights
