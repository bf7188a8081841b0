package openlibrary

import (
	"encoding/json"
	"regexp"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// htmlTagPattern detects the handful of tags catalog editors paste into
// descriptions.
var htmlTagPattern = regexp.MustCompile(`<(p|br|div|span|b|i|strong|em|a|ul|ol|li|h[1-6]|blockquote)[\s>/]`)

// parseDescription accepts either a bare string or a {"type","value"} text
// object and returns the text as Markdown.
func parseDescription(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		var typed struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(raw, &typed); err != nil {
			return ""
		}
		text = typed.Value
	}
	return htmlToMarkdown(strings.TrimSpace(text))
}

// htmlToMarkdown converts HTML content to Markdown. Plain text passes
// through unchanged, as does anything the converter rejects.
func htmlToMarkdown(s string) string {
	if s == "" || !htmlTagPattern.MatchString(strings.ToLower(s)) {
		return s
	}
	markdown, err := htmltomarkdown.ConvertString(s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(markdown)
}
