// Package search is the local full-text index over cached books, backed by
// Bleve. It lets clients search the books Shelfnote already knows about
// without a round trip to the upstream catalog.
package search

import (
	"context"
	"strings"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/genre"
)

// BookDocument is the indexed form of a book.
type BookDocument struct {
	ID          string   `json:"id"`
	ExternalID  string   `json:"external_id"`
	Title       string   `json:"title"`
	Author      string   `json:"author,omitempty"` // all authors joined for matching
	Subjects    []string `json:"subjects,omitempty"`
	ISBN13      string   `json:"isbn13,omitempty"`
	PublishYear int      `json:"publish_year,omitempty"`
	PageCount   int      `json:"page_count,omitempty"`
}

// NewBookDocument builds the index document for a book. Subjects are stored
// as canonical genre slugs so filters match however the catalog spelled them.
func NewBookDocument(b *domain.Book) *BookDocument {
	return &BookDocument{
		ID:          b.ID,
		ExternalID:  b.ExternalID,
		Title:       b.Title,
		Author:      strings.Join(b.Authors, ", "),
		Subjects:    genre.NormalizeAll(b.Subjects),
		ISBN13:      b.ISBN13,
		PublishYear: b.PublishYear,
		PageCount:   b.PageCount,
	}
}

// ToMap converts the document to the field names the mapping declares.
// Zero values are omitted so numeric range queries skip unknown data.
func (d *BookDocument) ToMap() map[string]any {
	m := map[string]any{
		"id":          d.ID,
		"external_id": d.ExternalID,
		"title":       d.Title,
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if len(d.Subjects) > 0 {
		m["subjects"] = d.Subjects
	}
	if d.ISBN13 != "" {
		m["isbn13"] = d.ISBN13
	}
	if d.PublishYear > 0 {
		m["publish_year"] = float64(d.PublishYear)
	}
	if d.PageCount > 0 {
		m["page_count"] = float64(d.PageCount)
	}
	return m
}

// IndexBook indexes or replaces a book. It satisfies store.SearchIndexer.
func (s *SearchIndex) IndexBook(_ context.Context, b *domain.Book) error {
	return s.IndexDocument(NewBookDocument(b))
}

// IndexBooks indexes books in batches.
func (s *SearchIndex) IndexBooks(_ context.Context, books []*domain.Book) error {
	docs := make([]*BookDocument, len(books))
	for i, b := range books {
		docs[i] = NewBookDocument(b)
	}
	return s.IndexDocuments(docs)
}
