// Package main inspects a Shelfnote data directory: cached books, the search
// index and the upstream metadata cache.
//
// Usage:
//
//	DATA_PATH=~/Shelfnote go run ./cmd/dbinspect
package main

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/shelfnote/shelfnote-server/internal/config"
	"github.com/shelfnote/shelfnote-server/internal/logger"
	"github.com/shelfnote/shelfnote-server/internal/search"
	"github.com/shelfnote/shelfnote-server/internal/store/sqlite"
)

func main() {
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = filepath.Join(os.Getenv("HOME"), "Shelfnote")
	}
	data := config.DataConfig{BasePath: dataPath}
	quiet := logger.Discard().Logger
	ctx := context.Background()

	fmt.Println("=== Shelfnote Data Inspection ===")
	fmt.Printf("Data path: %s\n\n", dataPath)

	st, err := sqlite.Open(data.DBPath(), quiet)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer st.Close()

	books, err := st.ListBooks(ctx)
	if err != nil {
		log.Fatalf("Failed to list books: %v", err)
	}
	withPages, withISBN := 0, 0
	for _, b := range books {
		if b.PageCount > 0 {
			withPages++
		}
		if b.ISBN13 != "" {
			withISBN++
		}
	}
	fmt.Println("Books:")
	fmt.Printf("  Cached:          %d\n", len(books))
	fmt.Printf("  With page count: %d\n", withPages)
	fmt.Printf("  With ISBN-13:    %d\n", withISBN)

	index, err := search.NewSearchIndex(search.Options{DataPath: data.SearchPath(), Logger: quiet})
	if err != nil {
		fmt.Printf("\nSearch index: unavailable (%v)\n", err)
	} else {
		docs, _ := index.DocumentCount()
		fmt.Printf("\nSearch index: %d documents\n", docs)
		if int(docs) != len(books) {
			fmt.Println("  Index is out of sync with the database; the server reindexes an empty index on start.")
		}
		_ = index.Close()
	}

	inspectCache(data.CachePath())
}

// inspectCache lists cached upstream responses by endpoint with their
// remaining lifetime.
func inspectCache(path string) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		fmt.Printf("\nMetadata cache: unavailable (%v)\n", err)
		return
	}
	defer db.Close()

	type endpointStats struct {
		entries  int
		bytes    int64
		earliest time.Time
	}
	byEndpoint := map[string]*endpointStats{}

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte("md:")})
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			endpoint := "unknown"
			if u, err := url.Parse(strings.TrimPrefix(string(item.Key()), "md:")); err == nil {
				endpoint = u.Path
			}
			stats := byEndpoint[endpoint]
			if stats == nil {
				stats = &endpointStats{}
				byEndpoint[endpoint] = stats
			}
			stats.entries++
			stats.bytes += item.ValueSize()
			if exp := item.ExpiresAt(); exp > 0 {
				t := time.Unix(int64(exp), 0) //nolint:gosec // badger stores unix seconds
				if stats.earliest.IsZero() || t.Before(stats.earliest) {
					stats.earliest = t
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Fatalf("Failed to read metadata cache: %v", err)
	}

	fmt.Println("\nMetadata cache:")
	if len(byEndpoint) == 0 {
		fmt.Println("  (empty)")
		return
	}

	endpoints := make([]string, 0, len(byEndpoint))
	for e := range byEndpoint {
		endpoints = append(endpoints, e)
	}
	sort.Strings(endpoints)

	for _, e := range endpoints {
		s := byEndpoint[e]
		line := fmt.Sprintf("  %-28s %5d entries %8d bytes", e, s.entries, s.bytes)
		if !s.earliest.IsZero() {
			line += fmt.Sprintf("  next expiry in %s", time.Until(s.earliest).Round(time.Minute))
		}
		fmt.Println(line)
	}
}
