// Package feed merges normalized activity items into a single ordered stream
// and groups related items into conversation threads.
package feed

import (
	"fmt"
	"sort"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

// Aggregate filters items by the query's source set and date bounds, sorts the
// survivors by timestamp descending, and truncates to the query limit. The
// input is never modified; calling Aggregate twice with the same arguments
// yields array-equal output.
func Aggregate(items []models.ActivityItem, q models.FeedQuery) ([]models.ActivityItem, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("aggregate: %w", err)
	}

	out := make([]models.ActivityItem, 0, len(items))
	for _, item := range items {
		if !q.MatchesSource(item.Source) {
			continue
		}
		if !q.InRange(item.Timestamp) {
			continue
		}
		out = append(out, item)
	}

	// Stable sort keeps input order for equal timestamps, which keeps repeated
	// calls deterministic.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}

	return out, nil
}

// Merge concatenates per-source batches into one slice, dropping items whose
// ID was already seen. The first occurrence wins.
func Merge(batches ...[]models.ActivityItem) []models.ActivityItem {
	total := 0
	for _, b := range batches {
		total += len(b)
	}

	seen := make(map[string]struct{}, total)
	merged := make([]models.ActivityItem, 0, total)
	for _, batch := range batches {
		for _, item := range batch {
			if _, dup := seen[item.ID]; dup {
				continue
			}
			seen[item.ID] = struct{}{}
			merged = append(merged, item)
		}
	}
	return merged
}
