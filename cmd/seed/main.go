// Package main seeds a Shelfnote database with demo readers, books and
// reading history so the insight endpoints have something to show.
//
// Each reader gets a shelf in every status, a month of sessions with an
// active streak, a reviewed favourite and a yearly goal. A token for each
// reader is printed at the end.
//
// Usage:
//
//	go run ./cmd/seed -data-path ~/Shelfnote -readers 3
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/shelfnote/shelfnote-server/internal/auth"
	"github.com/shelfnote/shelfnote-server/internal/config"
	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/id"
	"github.com/shelfnote/shelfnote-server/internal/logger"
	"github.com/shelfnote/shelfnote-server/internal/service"
	"github.com/shelfnote/shelfnote-server/internal/store/sqlite"
)

type demoBook struct {
	title    string
	author   string
	pages    int
	subjects []string
}

var catalog = []demoBook{
	{"Dune", "Frank Herbert", 604, []string{"Science Fiction", "Ecology"}},
	{"The Left Hand of Darkness", "Ursula K. Le Guin", 304, []string{"Science Fiction"}},
	{"Piranesi", "Susanna Clarke", 272, []string{"Fantasy"}},
	{"The Secret History", "Donna Tartt", 559, []string{"Fiction", "Mystery"}},
	{"Project Hail Mary", "Andy Weir", 476, []string{"Science Fiction"}},
	{"Rebecca", "Daphne du Maurier", 410, []string{"Gothic Fiction", "Mystery"}},
	{"Braiding Sweetgrass", "Robin Wall Kimmerer", 391, []string{"Nature", "Essays"}},
}

var (
	moods   = []string{"dark", "tense", "hopeful", "reflective", "adventurous", "mysterious"}
	pacings = []string{"slow", "medium", "fast"}
)

func main() {
	dataPath := flag.String("data-path", os.ExpandEnv("$HOME/Shelfnote"), "Shelfnote data directory")
	readers := flag.Int("readers", 3, "Number of demo readers to create")
	flag.Parse()

	ctx := context.Background()
	data := config.DataConfig{BasePath: *dataPath}
	quiet := logger.Discard().Logger

	if err := os.MkdirAll(*dataPath, 0o750); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}
	fmt.Printf("Opening database at: %s\n", data.DBPath())

	st, err := sqlite.Open(data.DBPath(), quiet)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	bookIDs := seedCatalog(ctx, st)
	fmt.Printf("Catalog ready: %d books\n", len(bookIDs))

	key, err := auth.LoadOrGenerateKey(*dataPath)
	if err != nil {
		log.Fatalf("Failed to load auth key: %v", err)
	}
	tokens, err := auth.NewTokenService(key, 30*24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to create token service: %v", err)
	}
	fmt.Printf("Tokens are valid for %s\n", tokens.Lifetime())

	svc := seeder{
		library:  service.NewLibraryService(st, time.UTC, quiet),
		sessions: service.NewSessionService(st, time.UTC, quiet),
		goals:    service.NewGoalService(st, time.UTC, quiet),
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)), //nolint:gosec // demo data
	}

	for n := range *readers {
		userID := uuid.New().String()
		fmt.Printf("\nSeeding reader %d (%s)\n", n+1, userID)
		if err := svc.seedReader(ctx, userID, bookIDs); err != nil {
			log.Fatalf("Failed to seed reader: %v", err)
		}

		token, expires, err := tokens.Issue(userID)
		if err != nil {
			log.Fatalf("Failed to issue token: %v", err)
		}
		fmt.Printf("  Token (expires %s):\n  %s\n", expires.Format(time.DateOnly), token)
	}
}

// seedCatalog stores the demo books, reusing any already seeded.
func seedCatalog(ctx context.Context, st *sqlite.Store) []string {
	ids := make([]string, 0, len(catalog))
	for i, b := range catalog {
		externalID := fmt.Sprintf("/works/OL%dSEEDW", i+1)
		if existing, err := st.GetBookByExternalID(ctx, externalID); err == nil {
			ids = append(ids, existing.ID)
			continue
		}

		stored, err := st.UpsertBook(ctx, &domain.Book{
			ID:         id.MustGenerate(id.PrefixBook),
			ExternalID: externalID,
			Title:      b.title,
			Authors:    []string{b.author},
			Subjects:   b.subjects,
			PageCount:  b.pages,
		})
		if err != nil {
			log.Fatalf("Failed to store %q: %v", b.title, err)
		}
		ids = append(ids, stored.ID)
	}
	return ids
}

type seeder struct {
	library  *service.LibraryService
	sessions *service.SessionService
	goals    *service.GoalService
	rng      *rand.Rand
}

func (s seeder) seedReader(ctx context.Context, userID string, bookIDs []string) error {
	shuffled := append([]string(nil), bookIDs...)
	s.rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

	// Two finished favourites, two in progress, the rest waiting.
	finished, reading, waiting := shuffled[:2], shuffled[2:4], shuffled[4:]

	for _, bookID := range finished {
		if _, err := s.library.Add(ctx, userID, bookID, domain.StatusCurrentlyReading); err != nil {
			return err
		}
		if _, err := s.library.UpdateStatus(ctx, userID, bookID, domain.StatusFinished); err != nil {
			return err
		}
		if err := s.review(ctx, userID, bookID); err != nil {
			return err
		}
	}
	fmt.Printf("  Finished and reviewed %d books\n", len(finished))

	for _, bookID := range reading {
		if _, err := s.library.Add(ctx, userID, bookID, domain.StatusCurrentlyReading); err != nil {
			return err
		}
	}

	today := domain.Today(time.Now(), time.UTC)
	logged := 0
	for back := 29; back >= 0; back-- {
		// Always read on the last few days so the streak is live.
		if back > 3 && s.rng.Float64() > 0.7 {
			continue
		}
		bookID := reading[s.rng.IntN(len(reading))]
		_, err := s.sessions.Log(ctx, userID, service.LogSessionInput{
			BookID:    bookID,
			Date:      today.AddDate(0, 0, -back),
			PagesRead: 10 + s.rng.IntN(40),
		})
		if err != nil {
			return err
		}
		logged++
	}
	fmt.Printf("  Logged %d sessions across %d books\n", logged, len(reading))

	for _, bookID := range waiting {
		if _, err := s.library.Add(ctx, userID, bookID, domain.StatusWantToRead); err != nil {
			return err
		}
	}

	_, err := s.goals.Set(ctx, userID, today.Year(), service.SetGoalInput{
		Type:   domain.GoalBooks,
		Target: 12 + s.rng.IntN(24),
	})
	return err
}

func (s seeder) review(ctx context.Context, userID, bookID string) error {
	rating := 4.5 + float64(s.rng.IntN(3))*0.25
	picked := []string{moods[s.rng.IntN(len(moods))], moods[s.rng.IntN(len(moods))]}
	pacing := pacings[s.rng.IntN(len(pacings))]
	format := string(domain.FormatPhysical)
	if s.rng.IntN(2) == 0 {
		format = string(domain.FormatAudiobook)
	}

	_, err := s.library.UpdateReview(ctx, userID, bookID, service.ReviewUpdate{
		Rating: &rating,
		Moods:  &picked,
		Pacing: &pacing,
		Format: &format,
	})
	return err
}
