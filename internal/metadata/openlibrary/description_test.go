package openlibrary

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDescription(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"missing", ``, ""},
		{"plain string", `"  A desert planet.  "`, "A desert planet."},
		{"typed text", `{"type":"/type/text","value":"Spice and sand."}`, "Spice and sand."},
		{"html", `"<p>The <em>spice</em> must flow.</p>"`, "The *spice* must flow."},
		{"angle brackets without tags", `"3 < 4 > 2"`, "3 < 4 > 2"},
		{"wrong shape", `42`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseDescription(json.RawMessage(tt.raw)))
		})
	}
}
