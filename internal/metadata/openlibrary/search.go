package openlibrary

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/moraes/isbn"
)

const searchFields = "key,title,author_name,subject,number_of_pages_median,isbn,first_publish_year,cover_i"

// Search runs a free-text catalog search.
func (c *Client) Search(ctx context.Context, q string, limit int) ([]Work, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []Work{}, nil
	}
	query := url.Values{}
	query.Set("q", q)
	query.Set("fields", searchFields)
	query.Set("limit", strconv.Itoa(clampLimit(limit)))

	works, err := c.search(ctx, query)
	if err != nil {
		return nil, wrapError("search", q, err)
	}
	return works, nil
}

// SearchISBN looks up works by ISBN-10 or ISBN-13. Hyphens and spaces are
// ignored; ISBN-10 input is converted to ISBN-13 before querying.
func (c *Client) SearchISBN(ctx context.Context, raw string) ([]Work, error) {
	code, err := NormalizeISBN(raw)
	if err != nil {
		return nil, wrapError("search", raw, err)
	}
	query := url.Values{}
	query.Set("isbn", code)
	query.Set("fields", searchFields)

	works, err := c.search(ctx, query)
	if err != nil {
		return nil, wrapError("search", code, err)
	}
	for i := range works {
		if works[i].ISBN13 == "" {
			works[i].ISBN13 = code
		}
	}
	return works, nil
}

func (c *Client) search(ctx context.Context, query url.Values) ([]Work, error) {
	body, err := c.get(ctx, "search", "/search.json", query)
	if err != nil {
		return nil, err
	}

	var resp rawSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	works := make([]Work, 0, len(resp.Docs))
	for _, d := range resp.Docs {
		if d.Key == "" || d.Title == "" {
			continue
		}
		works = append(works, Work{
			Key:         d.Key,
			Title:       d.Title,
			Authors:     d.AuthorName,
			Subjects:    d.Subject,
			PageCount:   d.NumberOfPagesMedian,
			ISBN13:      firstISBN13(d.ISBN),
			PublishYear: d.FirstPublishYear,
			CoverID:     d.CoverI,
		})
	}
	return works, nil
}

// NormalizeISBN strips separators, validates the checksum and returns the
// ISBN-13 form.
func NormalizeISBN(raw string) (string, error) {
	code := strings.Map(func(r rune) rune {
		if r == '-' || r == ' ' {
			return -1
		}
		return r
	}, strings.ToUpper(strings.TrimSpace(raw)))

	if !isbn.Validate(code) {
		return "", ErrInvalidISBN
	}
	if len(code) == 13 {
		return code, nil
	}
	code13, err := isbn.To13(code)
	if err != nil {
		return "", ErrInvalidISBN
	}
	return code13, nil
}

func firstISBN13(codes []string) string {
	for _, c := range codes {
		if len(c) == 13 && isbn.Validate(c) {
			return c
		}
	}
	return ""
}
