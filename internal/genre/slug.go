// Package genre normalizes free-form book subjects into stable slugs and
// display labels, so "Science Fiction", "science fiction" and "Sci-Fi" all
// count as one subject.
package genre

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	titleCaser      = cases.Title(language.English)
)

// Slugify converts a string to a URL-safe slug.
// "Science Fiction" -> "science-fiction".
// "Fantasy, Epic" -> "fantasy-epic".
// "Ciência" -> "ciencia".
func Slugify(s string) string {
	// Decompose accents so the base letter survives the ASCII filter.
	s = norm.NFKD.String(s)
	s = strings.Map(func(r rune) rune {
		if r > unicode.MaxASCII {
			return -1
		}
		return r
	}, s)

	s = strings.ToLower(s)
	s = nonAlphanumeric.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Normalize maps a raw subject to its canonical slug. Catalogue noise
// ("Accessible book", "nyt:..." list tags) and empty input return false.
func Normalize(subject string) (string, bool) {
	raw := strings.TrimSpace(subject)
	if raw == "" || strings.Contains(raw, ":") {
		return "", false
	}
	slug := Slugify(raw)
	if slug == "" {
		return "", false
	}
	if _, noisy := noiseSubjects[slug]; noisy {
		return "", false
	}
	if canonical, ok := aliases[slug]; ok {
		return canonical, true
	}
	return slug, true
}

// NormalizeAll normalizes subjects, dropping noise and duplicates while
// keeping first-seen order.
func NormalizeAll(subjects []string) []string {
	out := make([]string, 0, len(subjects))
	seen := make(map[string]struct{}, len(subjects))
	for _, s := range subjects {
		slug, ok := Normalize(s)
		if !ok {
			continue
		}
		if _, dup := seen[slug]; dup {
			continue
		}
		seen[slug] = struct{}{}
		out = append(out, slug)
	}
	return out
}

// Label returns the display name for a slug.
func Label(slug string) string {
	if name, ok := labels[slug]; ok {
		return name
	}
	return titleCaser.String(strings.ReplaceAll(slug, "-", " "))
}
