package trending

import (
	"testing"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

func TestScorer_Score(t *testing.T) {
	scorer := NewScorer(Config{})

	tests := []struct {
		name    string
		metrics models.EngagementMetrics
		want    int
	}{
		{
			name:    "zero metrics",
			metrics: models.EngagementMetrics{PeriodDays: 7},
			want:    0,
		},
		{
			name: "daily rate of 10 saturates",
			// 70 views over 7 days = 10/day -> 100.
			metrics: models.EngagementMetrics{Views: 70, PeriodDays: 7},
			want:    100,
		},
		{
			name: "half rate",
			// 35 views over 7 days = 5/day -> 50.
			metrics: models.EngagementMetrics{Views: 35, PeriodDays: 7},
			want:    50,
		},
		{
			name: "likes weigh five views",
			// 7 likes over 7 days = 5 units/day -> 50.
			metrics: models.EngagementMetrics{Likes: 7, PeriodDays: 7},
			want:    50,
		},
		{
			name: "comments weigh ten views",
			// 7 comments over 7 days = 10 units/day -> 100.
			metrics: models.EngagementMetrics{Comments: 7, PeriodDays: 7},
			want:    100,
		},
		{
			name: "period floor of one day",
			// PeriodDays 0 behaves as 1.
			metrics: models.EngagementMetrics{Views: 5, PeriodDays: 0},
			want:    50,
		},
		{
			name:    "clamped at 100",
			metrics: models.EngagementMetrics{Views: 100000, Likes: 5000, Comments: 2000, PeriodDays: 7},
			want:    100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorer.Score(tt.metrics); got != tt.want {
				t.Errorf("Score(%+v) = %d, want %d", tt.metrics, got, tt.want)
			}
		})
	}
}

func TestScorer_Monotonicity(t *testing.T) {
	scorer := NewScorer(Config{})
	base := models.EngagementMetrics{Views: 20, Likes: 3, Comments: 1, PeriodDays: 30}
	baseScore := scorer.Score(base)

	bumps := []struct {
		name   string
		mutate func(models.EngagementMetrics) models.EngagementMetrics
	}{
		{"more views", func(m models.EngagementMetrics) models.EngagementMetrics { m.Views += 50; return m }},
		{"more likes", func(m models.EngagementMetrics) models.EngagementMetrics { m.Likes += 10; return m }},
		{"more comments", func(m models.EngagementMetrics) models.EngagementMetrics { m.Comments += 5; return m }},
	}

	for _, tt := range bumps {
		t.Run(tt.name, func(t *testing.T) {
			if got := scorer.Score(tt.mutate(base)); got < baseScore {
				t.Errorf("score decreased from %d to %d after %s", baseScore, got, tt.name)
			}
		})
	}
}

func TestScorer_Evaluate_ViewFloor(t *testing.T) {
	scorer := NewScorer(Config{MinViews: 100})

	// Massive comment engagement but views below the floor.
	hot := models.EngagementMetrics{Views: 99, Comments: 500, PeriodDays: 7}
	status := scorer.Evaluate(hot, hot)

	if status.EngagementScore == 0 {
		t.Fatal("expected a non-zero score for heavy engagement")
	}
	if status.IsWeeklyTrending {
		t.Error("item below the view floor must never be weekly trending")
	}
	if status.IsMonthlyTrending {
		t.Error("item below the view floor must never be monthly trending")
	}
}

func TestScorer_Evaluate_Thresholds(t *testing.T) {
	scorer := NewScorer(Config{MinViews: 100, WeeklyThreshold: 50, MonthlyThreshold: 30})

	// 280 views / 7 days = 40/day -> weekly score 100 (saturated), so use a
	// snapshot that lands between the two thresholds on the monthly window.
	weekly := models.EngagementMetrics{Views: 25, PeriodDays: 7}    // ~3.6/day -> 36
	monthly := models.EngagementMetrics{Views: 105, PeriodDays: 30} // 3.5/day -> 35

	status := scorer.Evaluate(weekly, monthly)

	if status.IsWeeklyTrending {
		t.Errorf("weekly score %d below threshold 50 must not trend", status.EngagementScore)
	}
	if !status.IsMonthlyTrending {
		t.Error("monthly score above threshold 30 with enough views should trend")
	}
}
