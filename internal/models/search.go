package models

import "time"

// SearchResult pairs an item with its relevance score. Higher scores rank
// earlier.
type SearchResult struct {
	Item          ActivityItem `json:"item"`
	Score         float64      `json:"score"`
	MatchedTerms  []string     `json:"matchedTerms,omitempty"`
	MatchedFields []string     `json:"matchedFields,omitempty"`
}

// SearchHistoryEntry records one executed query and its outcome.
type SearchHistoryEntry struct {
	Query       string    `json:"query"`
	ResultCount int       `json:"resultCount"`
	ExecutedAt  time.Time `json:"executedAt"`
}
