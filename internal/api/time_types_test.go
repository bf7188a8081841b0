package api

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"plain day", `"2026-03-14"`, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"utc timestamp", `"2026-03-14T23:30:00Z"`, time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)},
		{"offset decides the day", `"2026-03-15T01:30:00+09:00"`, time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.input), &d))
			assert.True(t, tt.want.Equal(d.Day()), "got %s", d.Day())
		})
	}
}

func TestDate_UnmarshalJSONErrors(t *testing.T) {
	for _, input := range []string{`"14/03/2026"`, `20260314`, `"yesterday"`} {
		var d Date
		assert.Error(t, json.Unmarshal([]byte(input), &d), input)
	}
}

func TestDate_MarshalJSON(t *testing.T) {
	out, err := json.Marshal(Date{Time: time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	assert.Equal(t, `"2026-03-14"`, string(out))
}

func TestDate_DayNil(t *testing.T) {
	var d *Date
	assert.True(t, d.Day().IsZero())
}

func TestParseDayParam(t *testing.T) {
	got, err := parseDayParam("from", "")
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	got, err = parseDayParam("from", "2026-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC), got)

	_, err = parseDayParam("to", "Jan 31")
	assert.ErrorContains(t, err, "to:")
}
