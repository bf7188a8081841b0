package domain

import "time"

// Book is reference metadata for a title, cached from the upstream
// metadata API and keyed by its external ID.
type Book struct {
	ID          string    `json:"id"`
	ExternalID  string    `json:"external_id"`
	Title       string    `json:"title"`
	Authors     []string  `json:"authors"`
	Subjects    []string  `json:"subjects"`
	PageCount   int       `json:"page_count"`
	ISBN13      string    `json:"isbn13,omitempty"`
	PublishYear int       `json:"publish_year,omitempty"`
	Description string    `json:"description,omitempty"`
	Covers      CoverURLs `json:"cover_urls"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CoverURLs holds cover image URLs by size.
type CoverURLs struct {
	Small  string `json:"small,omitempty"`
	Medium string `json:"medium,omitempty"`
	Large  string `json:"large,omitempty"`
}

// ShelfEntry joins a user's shelf state with the book it refers to.
type ShelfEntry struct {
	UserBook
	Book Book `json:"book"`
}
