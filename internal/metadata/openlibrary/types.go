package openlibrary

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shelfnote/shelfnote-server/internal/domain"
)

// Work is a book as the upstream catalog describes it.
type Work struct {
	Key         string   // "/works/OL45883W"
	Title       string
	Authors     []string
	Subjects    []string
	PageCount   int
	ISBN13      string
	PublishYear int
	CoverID     int
	Description string
}

// Book converts the work into a domain book. The ID and timestamps are left
// for the store to assign.
func (w Work) Book(coversURL string) domain.Book {
	b := domain.Book{
		ExternalID:  w.Key,
		Title:       w.Title,
		Authors:     nonNil(w.Authors),
		Subjects:    nonNil(w.Subjects),
		PageCount:   w.PageCount,
		ISBN13:      w.ISBN13,
		PublishYear: w.PublishYear,
		Description: w.Description,
	}
	if w.CoverID > 0 {
		b.Covers = domain.CoverURLs{
			Small:  coverURL(coversURL, w.CoverID, "S"),
			Medium: coverURL(coversURL, w.CoverID, "M"),
			Large:  coverURL(coversURL, w.CoverID, "L"),
		}
	}
	return b
}

func coverURL(base string, id int, size string) string {
	return fmt.Sprintf("%s/b/id/%d-%s.jpg", strings.TrimRight(base, "/"), id, size)
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// NormalizeWorkKey accepts "OL45883W", "/works/OL45883W" or
// "works/OL45883W" and returns the canonical "/works/OL45883W" form.
func NormalizeWorkKey(key string) (string, bool) {
	key = strings.TrimSpace(key)
	key = strings.TrimPrefix(key, "/")
	key = strings.TrimPrefix(key, "works/")
	if len(key) < 4 || !strings.HasPrefix(key, "OL") || !strings.HasSuffix(key, "W") {
		return "", false
	}
	for _, r := range key[2 : len(key)-1] {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return "/works/" + key, true
}

// Raw API response types

type rawSearchResponse struct {
	NumFound int            `json:"numFound"`
	Docs     []rawSearchDoc `json:"docs"`
}

type rawSearchDoc struct {
	Key                 string   `json:"key"`
	Title               string   `json:"title"`
	AuthorName          []string `json:"author_name"`
	Subject             []string `json:"subject"`
	NumberOfPagesMedian int      `json:"number_of_pages_median"`
	ISBN                []string `json:"isbn"`
	FirstPublishYear    int      `json:"first_publish_year"`
	CoverI              int      `json:"cover_i"`
}

type rawWork struct {
	Key      string   `json:"key"`
	Title    string   `json:"title"`
	Subjects []string `json:"subjects"`
	Covers   []int    `json:"covers"`
	Authors  []struct {
		Author struct {
			Key string `json:"key"`
		} `json:"author"`
	} `json:"authors"`
	FirstPublishDate string          `json:"first_publish_date"`
	Description      json.RawMessage `json:"description"`
}

type rawAuthor struct {
	Name string `json:"name"`
}

type rawEditions struct {
	Entries []struct {
		NumberOfPages int      `json:"number_of_pages"`
		ISBN13        []string `json:"isbn_13"`
	} `json:"entries"`
}
