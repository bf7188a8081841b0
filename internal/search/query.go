package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/shelfnote/shelfnote-server/internal/genre"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// SearchParams configures a search query.
type SearchParams struct {
	Query    string
	Subjects []string // raw or slug form; matched as canonical slugs
	MinYear  int
	MaxYear  int

	Limit  int
	Offset int

	// SortBy is "relevance" (default), "title" or "year".
	SortBy string
}

// SearchResult is one page of matches.
type SearchResult struct {
	Query    string       `json:"query"`
	Total    uint64       `json:"total"`
	TookMs   int64        `json:"took_ms"`
	Hits     []SearchHit  `json:"hits"`
	Subjects []FacetCount `json:"subjects,omitempty"`
}

// SearchHit is a single matched book.
type SearchHit struct {
	ID          string            `json:"id"`
	ExternalID  string            `json:"external_id"`
	Score       float64           `json:"score"`
	Title       string            `json:"title"`
	Author      string            `json:"author,omitempty"`
	PublishYear int               `json:"publish_year,omitempty"`
	Highlights  map[string]string `json:"highlights,omitempty"`
}

// FacetCount is a facet value and how many hits carry it.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a query against the index.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	limit := params.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), limit, max(params.Offset, 0), false)
	switch params.SortBy {
	case "title":
		req.SortBy([]string{"title", "-_score"})
	case "year":
		req.SortBy([]string{"-publish_year", "-_score"})
	default:
		req.SortBy([]string{"-_score", "id"})
	}
	req.AddFacet("subjects", bleve.NewFacetRequest("subjects", 10))
	req.Highlight = bleve.NewHighlight()
	req.Highlight.AddField("title")
	req.Highlight.AddField("author")
	req.Fields = []string{"external_id", "title", "author", "publish_year"}

	res, err := s.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}
	for _, hit := range res.Hits {
		h := SearchHit{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["external_id"].(string); ok {
			h.ExternalID = v
		}
		if v, ok := hit.Fields["title"].(string); ok {
			h.Title = v
		}
		if v, ok := hit.Fields["author"].(string); ok {
			h.Author = v
		}
		if v, ok := hit.Fields["publish_year"].(float64); ok {
			h.PublishYear = int(v)
		}
		if len(hit.Fragments) > 0 {
			h.Highlights = make(map[string]string, len(hit.Fragments))
			for field, frags := range hit.Fragments {
				if len(frags) > 0 {
					h.Highlights[field] = frags[0]
				}
			}
		}
		result.Hits = append(result.Hits, h)
	}

	if f, ok := res.Facets["subjects"]; ok && f.Terms != nil {
		for _, term := range f.Terms.Terms() {
			result.Subjects = append(result.Subjects, FacetCount{Value: term.Term, Count: term.Count})
		}
	}
	return result, nil
}

// buildSearchQuery matches the text against title (boosted, fuzzy and
// prefix) and author, then ANDs in the subject and year filters.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	if text := strings.TrimSpace(params.Query); text != "" {
		titleMatch := bleve.NewMatchQuery(text)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		authorMatch := bleve.NewMatchQuery(text)
		authorMatch.SetField("author")
		authorMatch.SetBoost(1.5)

		fuzzy := bleve.NewMatchQuery(text)
		fuzzy.SetField("title")
		fuzzy.SetFuzziness(1)
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{titleMatch, authorMatch, fuzzy}
		if len(text) >= 2 && !strings.Contains(text, " ") {
			prefix := bleve.NewPrefixQuery(strings.ToLower(text))
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}

		isbnTerm := bleve.NewTermQuery(strings.ReplaceAll(text, "-", ""))
		isbnTerm.SetField("isbn13")
		textQueries = append(textQueries, isbnTerm)

		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if slugs := genre.NormalizeAll(params.Subjects); len(slugs) > 0 {
		subjectQueries := make([]query.Query, len(slugs))
		for i, slug := range slugs {
			tq := bleve.NewTermQuery(slug)
			tq.SetField("subjects")
			subjectQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(subjectQueries...))
	}

	if params.MinYear > 0 || params.MaxYear > 0 {
		lo := float64(params.MinYear)
		hi := float64(3000)
		if params.MaxYear > 0 {
			hi = float64(params.MaxYear)
		}
		inclusive := true
		yearRange := bleve.NewNumericRangeInclusiveQuery(&lo, &hi, &inclusive, &inclusive)
		yearRange.SetField("publish_year")
		queries = append(queries, yearRange)
	}

	switch len(queries) {
	case 0:
		return bleve.NewMatchAllQuery()
	case 1:
		return queries[0]
	default:
		return bleve.NewConjunctionQuery(queries...)
	}
}
