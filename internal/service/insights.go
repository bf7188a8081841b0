package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shelfnote/shelfnote-server/internal/domain"
	"github.com/shelfnote/shelfnote-server/internal/errors"
	"github.com/shelfnote/shelfnote-server/internal/insights"
	"github.com/shelfnote/shelfnote-server/internal/metrics"
	"github.com/shelfnote/shelfnote-server/internal/store"
)

// InsightsService computes reading insights on demand. Nothing it returns
// is persisted; every call reads fresh rows.
type InsightsService struct {
	store  store.Store
	logger *slog.Logger
	clock  clock
}

// NewInsightsService creates an insights service. loc decides which calendar
// day "today" is.
func NewInsightsService(s store.Store, loc *time.Location, logger *slog.Logger) *InsightsService {
	return &InsightsService{store: s, logger: logger, clock: newClock(loc)}
}

// readerRows are the rows most insights are computed from.
type readerRows struct {
	sessions []domain.ReadingSession
	shelf    []domain.ShelfEntry
	goals    []domain.ReadingGoal
}

// rowSet selects which rows loadRows fetches.
type rowSet struct {
	sessions, shelf, goals bool
}

// loadRows fetches the requested rows concurrently. The first failure
// cancels the others.
func (s *InsightsService) loadRows(ctx context.Context, userID string, year int, want rowSet) (*readerRows, error) {
	rows := &readerRows{}
	g, gctx := errgroup.WithContext(ctx)

	if want.sessions {
		g.Go(func() error {
			sessions, err := s.store.ListReadingSessions(gctx, store.SessionFilter{UserID: userID})
			if err != nil {
				return fmt.Errorf("list sessions: %w", err)
			}
			rows.sessions = sessions
			return nil
		})
	}
	if want.shelf {
		g.Go(func() error {
			shelf, err := s.store.ListShelf(gctx, userID, store.ShelfFilter{})
			if err != nil {
				return fmt.Errorf("list shelf: %w", err)
			}
			rows.shelf = shelf
			return nil
		})
	}
	if want.goals {
		g.Go(func() error {
			goals, err := s.store.ListGoals(gctx, userID, year)
			if err != nil {
				return fmt.Errorf("list goals: %w", err)
			}
			rows.goals = goals
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func parseWindow(w domain.InsightWindow) (domain.InsightWindow, error) {
	if w == "" {
		return domain.WindowLast30, nil
	}
	if !w.Valid() {
		return "", errors.Validationf("unknown window %q (use last30, ytd or all)", w)
	}
	return w, nil
}

// Dashboard assembles every insight card for the reader.
func (s *InsightsService) Dashboard(ctx context.Context, userID string, window domain.InsightWindow) (*domain.Dashboard, error) {
	start := time.Now()
	window, err := parseWindow(window)
	if err != nil {
		return nil, err
	}

	today := s.clock.today()
	rows, err := s.loadRows(ctx, userID, today.Year(), rowSet{sessions: true, shelf: true, goals: true})
	if err != nil {
		return nil, err
	}

	d := insights.BuildDashboard(insights.DashboardInput{
		Window:   window,
		Today:    today,
		Sessions: rows.sessions,
		Shelf:    rows.shelf,
		Goals:    rows.goals,
	})
	metrics.ObserveInsight("dashboard", time.Since(start))

	s.logger.Debug("dashboard computed",
		"user_id", userID,
		"window", window,
		"sessions", len(rows.sessions),
		"shelf", len(rows.shelf),
	)
	return &d, nil
}

// Velocity returns pace and streak figures for the window.
func (s *InsightsService) Velocity(ctx context.Context, userID string, window domain.InsightWindow) (*domain.Velocity, error) {
	start := time.Now()
	window, err := parseWindow(window)
	if err != nil {
		return nil, err
	}

	rows, err := s.loadRows(ctx, userID, 0, rowSet{sessions: true})
	if err != nil {
		return nil, err
	}
	v := insights.ComputeVelocity(rows.sessions, window, s.clock.today())
	metrics.ObserveInsight("velocity", time.Since(start))
	return &v, nil
}

// ForecastResult lists finish-date forecasts and the soonest defined one.
type ForecastResult struct {
	Forecasts []domain.Forecast `json:"forecasts"`
	Soonest   *domain.Forecast  `json:"soonest,omitempty"`
}

// Forecasts estimates finish dates for every book being read at the
// reader's last-30-days pace.
func (s *InsightsService) Forecasts(ctx context.Context, userID string) (*ForecastResult, error) {
	start := time.Now()
	rows, err := s.loadRows(ctx, userID, 0, rowSet{sessions: true, shelf: true})
	if err != nil {
		return nil, err
	}

	today := s.clock.today()
	pace := insights.ComputeVelocity(rows.sessions, domain.WindowLast30, today).PagesPerDay
	res := &ForecastResult{
		Forecasts: insights.ForecastAll(insights.ForecastInputs(rows.shelf, pace), today),
	}
	if soonest, ok := insights.Soonest(res.Forecasts); ok {
		res.Soonest = &soonest
	}
	metrics.ObserveInsight("forecast", time.Since(start))
	return res, nil
}

// Combo returns the reader's winning combo, or false when no finished book
// is rated highly enough yet.
func (s *InsightsService) Combo(ctx context.Context, userID string) (*domain.WinningCombo, bool, error) {
	start := time.Now()
	shelf, err := s.store.ListShelf(ctx, userID, store.ShelfFilter{Status: domain.StatusFinished})
	if err != nil {
		return nil, false, fmt.Errorf("list shelf: %w", err)
	}
	combo, ok := insights.WinningCombo(insights.ComboBooksFromShelf(shelf))
	metrics.ObserveInsight("combo", time.Since(start))
	return combo, ok, nil
}

// Community summarizes what other readers tagged a book with. The caller's
// own review is left out.
func (s *InsightsService) Community(ctx context.Context, userID, bookID string) (*domain.CommunityInsight, error) {
	start := time.Now()
	if _, err := s.store.GetBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFoundf("book %s not found", bookID)
		}
		return nil, fmt.Errorf("get book: %w", err)
	}

	raw, err := s.store.ListBookReviews(ctx, bookID, userID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	c := insights.CommunityFromRaw(raw)
	metrics.ObserveInsight("community", time.Since(start))
	return &c, nil
}

// GoalProgress measures the reader's goals for year.
func (s *InsightsService) GoalProgress(ctx context.Context, userID string, year int) ([]domain.GoalProgress, error) {
	start := time.Now()
	rows, err := s.loadRows(ctx, userID, year, rowSet{sessions: true, shelf: true, goals: true})
	if err != nil {
		return nil, err
	}
	progress := insights.GoalProgressAll(rows.goals, insights.GoalInputs{Sessions: rows.sessions, Shelf: rows.shelf}, s.clock.today())
	metrics.ObserveInsight("goals", time.Since(start))
	return progress, nil
}
