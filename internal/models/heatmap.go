package models

// HeatmapDay aggregates one calendar day of activity. Date is the ISO calendar
// date ("2006-01-02"); days with zero activity are emitted explicitly.
type HeatmapDay struct {
	Date        string   `json:"date"`
	Count       int      `json:"count"`
	TopSources  []Source `json:"topSources,omitempty"`
	ActivityIDs []string `json:"activityIds,omitempty"`
}

// SourceNames returns TopSources as plain strings for display.
func (d HeatmapDay) SourceNames() []string {
	names := make([]string, len(d.TopSources))
	for i, s := range d.TopSources {
		names[i] = string(s)
	}
	return names
}

// ActivityHeatmapStats is the full date-bucketed view over a range, plus the
// streak figures derived from it.
type ActivityHeatmapStats struct {
	Days            []HeatmapDay `json:"days"`
	TotalActivities int          `json:"totalActivities"`
	MaxCount        int          `json:"maxCount"`
	CurrentStreak   int          `json:"currentStreak"`
	LongestStreak   int          `json:"longestStreak"`
}
