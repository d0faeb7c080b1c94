package models

import (
	"fmt"
	"time"
)

// FeedQuery represents the filter options accepted by the aggregator.
type FeedQuery struct {
	Sources []Source   `json:"sources,omitempty"`
	After   *time.Time `json:"after,omitempty"`
	Before  *time.Time `json:"before,omitempty"`
	Limit   int        `json:"limit,omitempty"`
}

const maxFeedLimit = 1000

// Validate checks the query and applies defaults. A zero Limit means
// unlimited; negative limits are rejected.
func (q *FeedQuery) Validate() error {
	if q.Limit < 0 {
		return fmt.Errorf("feed query: limit must be non-negative, got %d", q.Limit)
	}
	if q.Limit > maxFeedLimit {
		q.Limit = maxFeedLimit
	}
	for _, s := range q.Sources {
		if !s.Valid() {
			return fmt.Errorf("feed query: unknown source %q", s)
		}
	}
	if q.After != nil && q.Before != nil && q.After.After(*q.Before) {
		return fmt.Errorf("feed query: after bound %s is later than before bound %s",
			q.After.Format(time.RFC3339), q.Before.Format(time.RFC3339))
	}
	return nil
}

// MatchesSource reports whether the query's source filter admits s. An empty
// filter admits everything.
func (q FeedQuery) MatchesSource(s Source) bool {
	if len(q.Sources) == 0 {
		return true
	}
	for _, want := range q.Sources {
		if want == s {
			return true
		}
	}
	return false
}

// InRange reports whether ts falls inside the query's date bounds. Both bounds
// are inclusive.
func (q FeedQuery) InRange(ts time.Time) bool {
	if q.After != nil && ts.Before(*q.After) {
		return false
	}
	if q.Before != nil && ts.After(*q.Before) {
		return false
	}
	return true
}
