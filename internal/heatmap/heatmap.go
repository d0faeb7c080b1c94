// Package heatmap buckets activity items by calendar date and derives
// activity and streak statistics for heatmap rendering.
package heatmap

import (
	"fmt"
	"time"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

const dateLayout = "2006-01-02"

// Build buckets every item whose timestamp falls inside [start, end]
// (inclusive) into its calendar day and returns one HeatmapDay per day in the
// range. Days with zero activity are emitted explicitly; the streak math
// depends on it.
func Build(items []models.ActivityItem, start, end time.Time) (models.ActivityHeatmapStats, error) {
	startDay := truncateToDay(start)
	endDay := truncateToDay(end)
	if endDay.Before(startDay) {
		return models.ActivityHeatmapStats{}, fmt.Errorf("heatmap: end %s before start %s",
			endDay.Format(dateLayout), startDay.Format(dateLayout))
	}

	dayCount := int(endDay.Sub(startDay).Hours()/24) + 1
	startKey := startDay.Format(dateLayout)
	endKey := endDay.Format(dateLayout)

	type bucket struct {
		ids         []string
		sourceCount map[models.Source]int
		sourceOrder []models.Source
	}
	buckets := make(map[string]*bucket)

	for _, item := range items {
		// The item's local calendar date, not a time-of-day bucket. ISO date
		// keys compare lexicographically, which sidesteps location-dependent
		// instant comparisons.
		key := item.Timestamp.Format(dateLayout)
		if key < startKey || key > endKey {
			continue
		}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{sourceCount: make(map[models.Source]int)}
			buckets[key] = b
		}
		b.ids = append(b.ids, item.ID)
		if _, seen := b.sourceCount[item.Source]; !seen {
			b.sourceOrder = append(b.sourceOrder, item.Source)
		}
		b.sourceCount[item.Source]++
	}

	stats := models.ActivityHeatmapStats{Days: make([]models.HeatmapDay, 0, dayCount)}
	for d := startDay; !d.After(endDay); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		day := models.HeatmapDay{Date: key}
		if b, ok := buckets[key]; ok {
			day.Count = len(b.ids)
			day.ActivityIDs = b.ids
			day.TopSources = topSources(b.sourceCount, b.sourceOrder)
		}
		stats.TotalActivities += day.Count
		if day.Count > stats.MaxCount {
			stats.MaxCount = day.Count
		}
		stats.Days = append(stats.Days, day)
	}

	stats.CurrentStreak, stats.LongestStreak = streaks(stats.Days)
	return stats, nil
}

// topSources ranks a day's sources by frequency, keeping the top 3. Ties break
// by first-seen order within the day.
func topSources(counts map[models.Source]int, order []models.Source) []models.Source {
	ranked := make([]models.Source, len(order))
	copy(ranked, order)

	// Insertion sort by count descending; stable over first-seen order.
	for i := 1; i < len(ranked); i++ {
		for j := i; j > 0 && counts[ranked[j]] > counts[ranked[j-1]]; j-- {
			ranked[j], ranked[j-1] = ranked[j-1], ranked[j]
		}
	}

	if len(ranked) > 3 {
		ranked = ranked[:3]
	}
	return ranked
}

// streaks returns (current, longest). Current counts consecutive non-empty
// days ending at the most recent day; it is zero when the most recent day is
// empty.
func streaks(days []models.HeatmapDay) (current, longest int) {
	run := 0
	for _, day := range days {
		if day.Count > 0 {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}

	for i := len(days) - 1; i >= 0; i-- {
		if days[i].Count == 0 {
			break
		}
		current++
	}
	return current, longest
}

// truncateToDay drops time-of-day in the timestamp's own location, so items
// bucket by their local calendar date.
func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
