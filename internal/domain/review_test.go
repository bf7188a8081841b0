package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReviewAttributes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want ReviewAttributes
	}{
		{
			name: "well formed",
			raw:  `{"moods":["Dark","tense"],"pacing":"Fast"}`,
			want: ReviewAttributes{Moods: []string{"dark", "tense"}, Pacing: PacingFast},
		},
		{
			name: "non-string moods dropped",
			raw:  `{"moods":["hopeful",3,null,{"x":1},"  "],"pacing":"slow"}`,
			want: ReviewAttributes{Moods: []string{"hopeful"}, Pacing: PacingSlow},
		},
		{
			name: "unknown pacing dropped",
			raw:  `{"moods":["funny","Funny"],"pacing":"breakneck"}`,
			want: ReviewAttributes{Moods: []string{"funny"}},
		},
		{
			name: "pacing wrong type",
			raw:  `{"pacing":2}`,
			want: ReviewAttributes{Moods: []string{}},
		},
		{
			name: "garbage",
			raw:  `not json`,
			want: ReviewAttributes{Moods: []string{}},
		},
		{
			name: "empty",
			raw:  ``,
			want: ReviewAttributes{Moods: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseReviewAttributes([]byte(tt.raw)))
		})
	}
}

func TestPacingOrdinalRoundTrip(t *testing.T) {
	for _, p := range []Pacing{PacingSlow, PacingMedium, PacingFast} {
		back, ok := PacingFromOrdinal(p.Ordinal())
		assert.True(t, ok)
		assert.Equal(t, p, back)
	}
	_, ok := PacingFromOrdinal(4)
	assert.False(t, ok)
	assert.Equal(t, "Medium", PacingMedium.Label())
}
