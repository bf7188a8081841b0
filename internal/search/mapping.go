package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve mapping for book documents: stemmed
// title and author text, keyword subjects and identifiers, numeric year and
// page count.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleField := bleve.NewTextFieldMapping()
	titleField.Analyzer = en.AnalyzerName
	titleField.Store = true
	titleField.IncludeTermVectors = true // highlighting
	docMapping.AddFieldMappingsAt("title", titleField)

	// Simple analyzer: names should not be stemmed.
	authorField := bleve.NewTextFieldMapping()
	authorField.Analyzer = simple.Name
	authorField.Store = true
	authorField.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorField)

	for _, name := range []string{"id", "external_id", "isbn13"} {
		f := bleve.NewTextFieldMapping()
		f.Analyzer = keyword.Name
		f.Store = true
		docMapping.AddFieldMappingsAt(name, f)
	}

	// Keyword keeps compound slugs like "science-fiction" intact.
	subjectsField := bleve.NewTextFieldMapping()
	subjectsField.Analyzer = keyword.Name
	subjectsField.Store = true
	docMapping.AddFieldMappingsAt("subjects", subjectsField)

	yearField := bleve.NewNumericFieldMapping()
	yearField.Store = true
	docMapping.AddFieldMappingsAt("publish_year", yearField)

	pagesField := bleve.NewNumericFieldMapping()
	pagesField.Store = true
	docMapping.AddFieldMappingsAt("page_count", pagesField)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
