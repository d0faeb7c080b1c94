package models

import "time"

// ActivityThread groups a primary item with its related follow-up items.
// Threads are constructed fresh on every aggregation pass and never persisted;
// a thread is a view over the current item set.
type ActivityThread struct {
	ID             string         `json:"id"`
	Primary        ActivityItem   `json:"primary"`
	Replies        []ActivityItem `json:"replies"`
	CollapsedCount int            `json:"collapsedCount"`
	Timestamp      time.Time      `json:"timestamp"`
}

// Size returns the total number of items the thread accounts for, including
// collapsed replies.
func (t ActivityThread) Size() int {
	return 1 + len(t.Replies) + t.CollapsedCount
}
