package insights

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/genre"
)

const (
	// ComboMinRating is the lowest rating a finished book needs to count.
	ComboMinRating = 4.5
	// ComboMinSubjectSupport is how many qualifying books must share a
	// subject before it can be the combo's subject.
	ComboMinSubjectSupport = 2
	comboMaxMoods          = 2
)

// WinningCombo profiles the user's favourite books: finished and rated at
// least ComboMinRating. It reports the most common pacing, the top two moods,
// the best-rated subject shared by at least two books and the most common
// format. Returns false when no book qualifies.
func WinningCombo(books []domain.ComboBook) (*domain.WinningCombo, bool) {
	pacing := counter{}
	moods := counter{}
	formats := counter{}
	subjects := map[string]*subjectScore{}
	qualifying := 0

	for _, b := range books {
		if b.Status != domain.StatusFinished {
			continue
		}
		rating, ok := domain.ValidRating(b.Rating)
		if !ok || rating < ComboMinRating {
			continue
		}
		qualifying++

		review := b.Review.Normalized()
		if review.Pacing != "" {
			pacing[string(review.Pacing)]++
		}
		for _, m := range review.Moods {
			moods[m]++
		}
		if b.Format != "" && b.Format.Valid() {
			formats[string(b.Format)]++
		}
		for _, slug := range genre.NormalizeAll(b.Subjects) {
			s := subjects[slug]
			if s == nil {
				s = &subjectScore{slug: slug}
				subjects[slug] = s
			}
			s.support++
			s.ratingSum += rating
		}
	}

	if qualifying == 0 {
		return nil, false
	}

	combo := &domain.WinningCombo{BookCount: qualifying, Moods: []string{}}
	if p, ok := pacing.top(); ok {
		combo.Pacing = domain.Pacing(p).Label()
	}
	for i, r := range moods.ranked() {
		if i == comboMaxMoods {
			break
		}
		combo.Moods = append(combo.Moods, r.key)
	}
	if s, ok := topSubject(subjects); ok {
		combo.SubjectSlug = s
		combo.Subject = genre.Label(s)
	}
	if f, ok := formats.top(); ok {
		combo.Format = domain.ReadingFormat(f).Label()
	}
	combo.Summary = comboSummary(combo)
	return combo, true
}

type subjectScore struct {
	slug      string
	support   int
	ratingSum float64
}

func (s *subjectScore) mean() float64 { return s.ratingSum / float64(s.support) }

// topSubject ranks eligible subjects by mean rating, then support, then slug.
func topSubject(subjects map[string]*subjectScore) (string, bool) {
	eligible := make([]*subjectScore, 0, len(subjects))
	for _, s := range subjects {
		if s.support >= ComboMinSubjectSupport {
			eligible = append(eligible, s)
		}
	}
	if len(eligible) == 0 {
		return "", false
	}
	sort.Slice(eligible, func(i, j int) bool {
		a, b := eligible[i], eligible[j]
		if a.mean() != b.mean() {
			return a.mean() > b.mean()
		}
		if a.support != b.support {
			return a.support > b.support
		}
		return a.slug < b.slug
	})
	return eligible[0].slug, true
}

var formatPhrases = map[string]string{
	"Physical":  "in print",
	"Ebook":     "as ebooks",
	"Audiobook": "as audiobooks",
}

// comboSummary renders e.g. "You love fast-paced, dark and tense Fantasy,
// mostly as ebooks."
func comboSummary(c *domain.WinningCombo) string {
	var traits []string
	if c.Pacing != "" {
		traits = append(traits, strings.ToLower(c.Pacing)+"-paced")
	}
	if len(c.Moods) > 0 {
		traits = append(traits, strings.Join(c.Moods, " and "))
	}

	noun := "books"
	if c.Subject != "" {
		noun = c.Subject
	}
	if len(traits) == 0 && c.Subject == "" {
		return fmt.Sprintf("No clear pattern yet across your %d top-rated %s.", c.BookCount, plural(c.BookCount, "book", "books"))
	}

	summary := "You love "
	if len(traits) > 0 {
		summary += strings.Join(traits, ", ") + " "
	}
	summary += noun
	if phrase, ok := formatPhrases[c.Format]; ok {
		summary += ", mostly " + phrase
	}
	return summary + "."
}

// ComboBooksFromShelf adapts shelf entries for WinningCombo.
func ComboBooksFromShelf(entries []domain.ShelfEntry) []domain.ComboBook {
	out := make([]domain.ComboBook, 0, len(entries))
	for _, e := range entries {
		out = append(out, domain.ComboBook{
			BookID:   e.BookID,
			Title:    e.Book.Title,
			Status:   e.Status,
			Rating:   e.Rating,
			Review:   e.ReviewAttributes,
			Format:   e.ReadingFormat,
			Subjects: e.Book.Subjects,
		})
	}
	return out
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
