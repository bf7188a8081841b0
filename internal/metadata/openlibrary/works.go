package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// maxAuthors bounds the per-work author lookups.
const maxAuthors = 5

// GetWork fetches a work by key, resolving author names and taking page count
// and ISBN from the first edition that has them.
func (c *Client) GetWork(ctx context.Context, key string) (*Work, error) {
	norm, ok := NormalizeWorkKey(key)
	if !ok {
		return nil, wrapError("work", key, ErrInvalidKey)
	}
	key = norm

	body, err := c.get(ctx, "work", key+".json", nil)
	if err != nil {
		return nil, wrapError("work", key, err)
	}
	var raw rawWork
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, wrapError("work", key, fmt.Errorf("parse response: %w", err))
	}

	w := &Work{
		Key:         key,
		Title:       raw.Title,
		Subjects:    raw.Subjects,
		PublishYear: parseYear(raw.FirstPublishDate),
		Description: parseDescription(raw.Description),
	}
	for _, id := range raw.Covers {
		if id > 0 {
			w.CoverID = id
			break
		}
	}

	for i, a := range raw.Authors {
		if i == maxAuthors {
			break
		}
		name, err := c.authorName(ctx, a.Author.Key)
		if err != nil {
			return nil, wrapError("authors", a.Author.Key, err)
		}
		if name != "" {
			w.Authors = append(w.Authors, name)
		}
	}

	if err := c.fillFromEditions(ctx, w); err != nil {
		// Editions only enrich the work; a missing list is not fatal.
		c.logger.Debug("editions lookup failed", "key", key, "error", err)
	}
	return w, nil
}

func (c *Client) authorName(ctx context.Context, key string) (string, error) {
	if !strings.HasPrefix(key, "/authors/") {
		return "", nil
	}
	body, err := c.get(ctx, "author", key+".json", nil)
	if err != nil {
		return "", err
	}
	var a rawAuthor
	if err := json.Unmarshal(body, &a); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	return strings.TrimSpace(a.Name), nil
}

func (c *Client) fillFromEditions(ctx context.Context, w *Work) error {
	query := url.Values{}
	query.Set("limit", "20")
	body, err := c.get(ctx, "editions", w.Key+"/editions.json", query)
	if err != nil {
		return err
	}
	var eds rawEditions
	if err := json.Unmarshal(body, &eds); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	for _, e := range eds.Entries {
		if w.PageCount == 0 && e.NumberOfPages > 0 {
			w.PageCount = e.NumberOfPages
		}
		if w.ISBN13 == "" {
			w.ISBN13 = firstISBN13(e.ISBN13)
		}
	}
	return nil
}

// parseYear pulls a four-digit year out of free-form dates like
// "June 1965" or "1965".
func parseYear(s string) int {
	for i := 0; i+4 <= len(s); i++ {
		if y, err := strconv.Atoi(s[i : i+4]); err == nil && y > 0 {
			return y
		}
	}
	return 0
}
