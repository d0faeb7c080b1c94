// Package trending derives a normalized engagement score and per-window
// trending flags from raw engagement metrics.
package trending

import (
	"math"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

// Config holds the scoring weights and thresholds. These are tuning
// parameters, not derived invariants, so they live in configuration rather
// than constants.
type Config struct {
	ViewWeight    float64
	LikeWeight    float64
	CommentWeight float64
	ReadingWeight float64

	// MinViews is the anti-spam floor: items below it never trend regardless
	// of score.
	MinViews int

	// WeeklyThreshold is stricter than MonthlyThreshold: a 7-day window
	// compresses the same events into less time and should demand more
	// intensity.
	WeeklyThreshold  int
	MonthlyThreshold int
}

// DefaultConfig returns the production calibration.
func DefaultConfig() Config {
	return Config{
		ViewWeight:       1,
		LikeWeight:       5,
		CommentWeight:    10,
		ReadingWeight:    2,
		MinViews:         100,
		WeeklyThreshold:  50,
		MonthlyThreshold: 30,
	}
}

// Scorer computes engagement scores from metric snapshots.
type Scorer struct {
	cfg Config
}

// NewScorer constructs a Scorer. Zero-valued weights fall back to defaults so
// a partially-populated config cannot silently zero the model.
func NewScorer(cfg Config) *Scorer {
	def := DefaultConfig()
	if cfg.ViewWeight == 0 {
		cfg.ViewWeight = def.ViewWeight
	}
	if cfg.LikeWeight == 0 {
		cfg.LikeWeight = def.LikeWeight
	}
	if cfg.CommentWeight == 0 {
		cfg.CommentWeight = def.CommentWeight
	}
	if cfg.ReadingWeight == 0 {
		cfg.ReadingWeight = def.ReadingWeight
	}
	if cfg.MinViews == 0 {
		cfg.MinViews = def.MinViews
	}
	if cfg.WeeklyThreshold == 0 {
		cfg.WeeklyThreshold = def.WeeklyThreshold
	}
	if cfg.MonthlyThreshold == 0 {
		cfg.MonthlyThreshold = def.MonthlyThreshold
	}
	return &Scorer{cfg: cfg}
}

// Score converts a metric snapshot into a 0-100 engagement score. The weighted
// engagement sum is divided by the period length (floor 1 day) to get a daily
// rate, then scaled and clamped. The scorer knows nothing about "weekly" vs
// "monthly"; callers pass distinct snapshots per window.
func (s *Scorer) Score(m models.EngagementMetrics) int {
	raw := float64(m.Views)*s.cfg.ViewWeight +
		float64(m.Likes)*s.cfg.LikeWeight +
		float64(m.Comments)*s.cfg.CommentWeight +
		(m.ReadingCompletion/100)*s.cfg.ReadingWeight

	days := m.PeriodDays
	if days < 1 {
		days = 1
	}
	dailyRate := raw / float64(days)

	score := dailyRate / 10 * 100
	score = math.Max(0, math.Min(100, score))

	return int(math.Round(score))
}

// Evaluate computes the full trending status from one snapshot per window.
// Both flags require the anti-spam view floor and the window's score
// threshold; the reported EngagementScore is the weekly one.
func (s *Scorer) Evaluate(weekly, monthly models.EngagementMetrics) models.TrendingStatus {
	weeklyScore := s.Score(weekly)
	monthlyScore := s.Score(monthly)

	return models.TrendingStatus{
		IsWeeklyTrending:  weekly.Views >= s.cfg.MinViews && weeklyScore >= s.cfg.WeeklyThreshold,
		IsMonthlyTrending: monthly.Views >= s.cfg.MinViews && monthlyScore >= s.cfg.MonthlyThreshold,
		EngagementScore:   weeklyScore,
		WeeklyMetrics:     weekly,
		MonthlyMetrics:    monthly,
	}
}
