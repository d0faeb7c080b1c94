package models

// EngagementMetrics is a point-in-time snapshot of engagement counters over a
// measurement window. ReadingCompletion is a 0-100 percentage.
type EngagementMetrics struct {
	Views             int     `json:"views"`
	Likes             int     `json:"likes"`
	Comments          int     `json:"comments"`
	ReadingCompletion float64 `json:"readingCompletion"`
	PeriodDays        int     `json:"periodDays"`
}

// TrendingStatus is the derived trending signal for an item. It is always
// recomputed from the metrics it carries, never cached as authoritative state.
type TrendingStatus struct {
	IsWeeklyTrending  bool              `json:"isWeeklyTrending"`
	IsMonthlyTrending bool              `json:"isMonthlyTrending"`
	EngagementScore   int               `json:"engagementScore"`
	WeeklyMetrics     EngagementMetrics `json:"weeklyMetrics"`
	MonthlyMetrics    EngagementMetrics `json:"monthlyMetrics"`
}
