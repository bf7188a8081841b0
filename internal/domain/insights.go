package domain

import "time"

// Velocity summarizes reading pace and streaks for a window.
type Velocity struct {
	Window        InsightWindow `json:"window"`
	PagesPerDay   float64       `json:"pages_per_day"`
	WeeklyTotal   int           `json:"weekly_total"`
	CurrentStreak int           `json:"current_streak"`
	BestStreak    int           `json:"best_streak"`
	TotalPages    int           `json:"total_pages"`
	ElapsedDays   int           `json:"elapsed_days"`
	ActiveDays    int           `json:"active_days"`
}

// ForecastStatus explains whether a finish date could be estimated.
type ForecastStatus string

// Forecast statuses.
const (
	ForecastEstimated     ForecastStatus = "estimated"
	ForecastNotStarted    ForecastStatus = "not-started"
	ForecastComplete      ForecastStatus = "complete"
	ForecastUnknownLength ForecastStatus = "unknown-length"
)

// ForecastInput is the per-book progress a forecast is computed from.
type ForecastInput struct {
	BookID      string
	Title       string
	CurrentPage int
	TotalPages  int
	PagesPerDay float64
}

// Forecast is the estimated finish of one in-progress book.
type Forecast struct {
	BookID       string         `json:"book_id"`
	Title        string         `json:"title"`
	CurrentPage  int            `json:"current_page"`
	TotalPages   int            `json:"total_pages"`
	PagesPerDay  float64        `json:"pages_per_day"`
	Status       ForecastStatus `json:"status"`
	DaysToFinish *int           `json:"days_to_finish,omitempty"`
	FinishDate   *time.Time     `json:"finish_date,omitempty"`
}

// Defined reports whether the forecast carries a day count.
func (f Forecast) Defined() bool {
	return f.DaysToFinish != nil
}

// ComboBook is the per-book input to the winning-combo summary.
type ComboBook struct {
	BookID   string
	Title    string
	Status   ReadingStatus
	Rating   *float64
	Review   ReviewAttributes
	Format   ReadingFormat
	Subjects []string
}

// WinningCombo is the profile shared by a reader's favourite books.
type WinningCombo struct {
	Summary     string   `json:"summary"`
	Pacing      string   `json:"pacing,omitempty"`
	Moods       []string `json:"moods"`
	Subject     string   `json:"subject,omitempty"`
	SubjectSlug string   `json:"subject_slug,omitempty"`
	Format      string   `json:"format,omitempty"`
	BookCount   int      `json:"book_count"`
}

// MoodShare is one mood's share of community reviews.
type MoodShare struct {
	Mood    string `json:"mood"`
	Count   int    `json:"count"`
	Percent int    `json:"percent"`
}

// CommunityInsight aggregates other readers' review attributes for a book.
// Its camelCase field names are the published client contract.
type CommunityInsight struct {
	Summary       string      `json:"summary"`
	Moods         []MoodShare `json:"moods"`
	AveragePacing *string     `json:"averagePacing"`
	TotalReviews  int         `json:"totalReviews"`
}

// GoalProgress is a goal with its current value for the year.
type GoalProgress struct {
	Goal          ReadingGoal `json:"goal"`
	Current       int         `json:"current"`
	Percent       int         `json:"percent"`
	ExpectedByNow int         `json:"expected_by_now"`
	OnTrack       bool        `json:"on_track"`
	Completed     bool        `json:"completed"`
}

// DailyPages is one point of the pages-per-day chart.
type DailyPages struct {
	Date  time.Time `json:"date"`
	Pages int       `json:"pages"`
}

// StreakDay is a single day in the streak calendar.
type StreakDay struct {
	Date      time.Time `json:"date"`
	HasRead   bool      `json:"has_read"`
	Pages     int       `json:"pages"`
	Intensity int       `json:"intensity"` // 0-4, 0 = no reading
}

// Dashboard bundles every insight card for one request.
type Dashboard struct {
	Window         InsightWindow  `json:"window"`
	Today          time.Time      `json:"today"`
	Velocity       Velocity       `json:"velocity"`
	Forecasts      []Forecast     `json:"forecasts"`
	Soonest        *Forecast      `json:"soonest,omitempty"`
	Combo          *WinningCombo  `json:"combo,omitempty"`
	Goals          []GoalProgress `json:"goals"`
	DailyPages     []DailyPages   `json:"daily_pages"`
	StreakCalendar []StreakDay    `json:"streak_calendar"`
}
