package insights

import (
	"fmt"
	"math"
	"strings"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// NoCommunityReviews is the summary returned when a book has no reviews.
const NoCommunityReviews = "No community reviews yet"

// Community aggregates other readers' review attributes for one book.
//
// Mood percentages are relative to the reviews that tagged at least one mood
// and are rounded to whole numbers, so they need not sum to 100. Average
// pacing maps slow, medium and fast to 1, 2 and 3, averages the reviews that
// carry a known label, and rounds half away from zero.
func Community(reviews []domain.ReviewAttributes) domain.CommunityInsight {
	insight := domain.CommunityInsight{
		Summary:      NoCommunityReviews,
		Moods:        []domain.MoodShare{},
		TotalReviews: len(reviews),
	}
	if len(reviews) == 0 {
		return insight
	}

	moods := counter{}
	moodRespondents := 0
	pacingSum, pacingVotes := 0, 0
	for _, r := range reviews {
		r = r.Normalized()
		if len(r.Moods) > 0 {
			moodRespondents++
		}
		for _, m := range r.Moods {
			moods[m]++
		}
		if ord := r.Pacing.Ordinal(); ord > 0 {
			pacingSum += ord
			pacingVotes++
		}
	}

	for _, m := range moods.ranked() {
		insight.Moods = append(insight.Moods, domain.MoodShare{
			Mood:    m.key,
			Count:   m.count,
			Percent: int(math.Round(float64(m.count) * 100 / float64(moodRespondents))),
		})
	}

	if pacingVotes > 0 {
		mean := float64(pacingSum) / float64(pacingVotes)
		if p, ok := domain.PacingFromOrdinal(int(math.Round(mean))); ok {
			label := p.Label()
			insight.AveragePacing = &label
		}
	}

	insight.Summary = communitySummary(insight)
	return insight
}

// CommunityFromRaw decodes stored review JSON leniently and aggregates it.
func CommunityFromRaw(raw [][]byte) domain.CommunityInsight {
	reviews := make([]domain.ReviewAttributes, 0, len(raw))
	for _, r := range raw {
		reviews = append(reviews, domain.ParseReviewAttributes(r))
	}
	return Community(reviews)
}

func communitySummary(c domain.CommunityInsight) string {
	readers := fmt.Sprintf("%d %s", c.TotalReviews, plural(c.TotalReviews, "reader", "readers"))

	switch {
	case len(c.Moods) > 0 && c.AveragePacing != nil:
		return fmt.Sprintf("%s mostly found it %s, with %s pacing.", readers, moodPhrase(c.Moods), strings.ToLower(*c.AveragePacing))
	case len(c.Moods) > 0:
		return fmt.Sprintf("%s mostly found it %s.", readers, moodPhrase(c.Moods))
	case c.AveragePacing != nil:
		return fmt.Sprintf("%s rated the pacing %s.", readers, strings.ToLower(*c.AveragePacing))
	default:
		return fmt.Sprintf("%s reviewed this book without tagging moods or pacing.", readers)
	}
}

func moodPhrase(moods []domain.MoodShare) string {
	if len(moods) == 1 {
		return moods[0].Mood
	}
	return moods[0].Mood + " and " + moods[1].Mood
}
