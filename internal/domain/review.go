package domain

import (
	"encoding/json"
	"strings"
)

// Pacing is a reader's sense of a book's narrative tempo.
type Pacing string

// Pacing labels.
const (
	PacingSlow   Pacing = "slow"
	PacingMedium Pacing = "medium"
	PacingFast   Pacing = "fast"
)

// ParsePacing normalizes a label. Unknown labels return false.
func ParsePacing(s string) (Pacing, bool) {
	switch p := Pacing(strings.ToLower(strings.TrimSpace(s))); p {
	case PacingSlow, PacingMedium, PacingFast:
		return p, true
	}
	return "", false
}

// Ordinal maps the pacing onto 1..3. Unknown pacing is 0.
func (p Pacing) Ordinal() int {
	switch p {
	case PacingSlow:
		return 1
	case PacingMedium:
		return 2
	case PacingFast:
		return 3
	}
	return 0
}

// PacingFromOrdinal is the inverse of Ordinal.
func PacingFromOrdinal(n int) (Pacing, bool) {
	switch n {
	case 1:
		return PacingSlow, true
	case 2:
		return PacingMedium, true
	case 3:
		return PacingFast, true
	}
	return "", false
}

// Label returns the capitalized display label.
func (p Pacing) Label() string {
	switch p {
	case PacingSlow:
		return "Slow"
	case PacingMedium:
		return "Medium"
	case PacingFast:
		return "Fast"
	}
	return ""
}

// ReviewAttributes are the structured tags a reader attaches to a review.
type ReviewAttributes struct {
	Moods  []string `json:"moods"`
	Pacing Pacing   `json:"pacing,omitempty"`
}

// NormalizeMood trims and lowercases a mood tag.
func NormalizeMood(m string) string {
	return strings.ToLower(strings.TrimSpace(m))
}

// Normalized returns a copy with moods normalized and deduplicated (first
// occurrence wins) and the pacing cleared when unknown.
func (r ReviewAttributes) Normalized() ReviewAttributes {
	out := ReviewAttributes{Moods: make([]string, 0, len(r.Moods))}
	seen := make(map[string]struct{}, len(r.Moods))
	for _, m := range r.Moods {
		m = NormalizeMood(m)
		if m == "" {
			continue
		}
		if _, dup := seen[m]; dup {
			continue
		}
		seen[m] = struct{}{}
		out.Moods = append(out.Moods, m)
	}
	if p, ok := ParsePacing(string(r.Pacing)); ok {
		out.Pacing = p
	}
	return out
}

// ParseReviewAttributes decodes stored review JSON leniently: each field is
// decoded on its own, non-string moods and unknown pacing labels are dropped,
// and undecodable input yields empty attributes instead of an error.
func ParseReviewAttributes(raw []byte) ReviewAttributes {
	attrs := ReviewAttributes{Moods: []string{}}

	var fields map[string]json.RawMessage
	if len(raw) == 0 || json.Unmarshal(raw, &fields) != nil {
		return attrs
	}

	var moods []json.RawMessage
	if json.Unmarshal(fields["moods"], &moods) == nil {
		for _, m := range moods {
			var s string
			if json.Unmarshal(m, &s) == nil {
				attrs.Moods = append(attrs.Moods, s)
			}
		}
	}

	var pacing string
	if json.Unmarshal(fields["pacing"], &pacing) == nil {
		attrs.Pacing = Pacing(pacing)
	}
	return attrs.Normalized()
}
