package models

import (
	"fmt"
	"time"
)

// ActivityItem is the canonical unit every producer normalizes into. Items are
// immutable value records: transformations produce new collections, never
// mutate in place.
type ActivityItem struct {
	ID          string    `json:"id"`
	Source      Source    `json:"source"`
	Verb        Verb      `json:"verb"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	Href        string    `json:"href,omitempty"`
	Meta        *Meta     `json:"meta,omitempty"`
}

// Source classifies where an activity originated.
type Source string

const (
	SourceContentPublication Source = "content-publication"
	SourceProjectLaunch      Source = "project-launch"
	SourceCodeCommit         Source = "code-commit"
	SourceSiteUpdate         Source = "site-update"
	SourceMilestone          Source = "milestone"
	SourceTrendingSignal     Source = "trending-signal"
	SourceHighEngagement     Source = "high-engagement"
	SourceCertification      Source = "certification"
	SourceTrafficAnalytics   Source = "traffic-analytics"
	SourceRepositoryTraffic  Source = "repository-traffic"
	SourceSearchRanking      Source = "search-ranking"
)

// AllSources lists every valid source in declaration order.
var AllSources = []Source{
	SourceContentPublication,
	SourceProjectLaunch,
	SourceCodeCommit,
	SourceSiteUpdate,
	SourceMilestone,
	SourceTrendingSignal,
	SourceHighEngagement,
	SourceCertification,
	SourceTrafficAnalytics,
	SourceRepositoryTraffic,
	SourceSearchRanking,
}

// Valid reports whether s is a member of the closed source enumeration.
func (s Source) Valid() bool {
	switch s {
	case SourceContentPublication, SourceProjectLaunch, SourceCodeCommit,
		SourceSiteUpdate, SourceMilestone, SourceTrendingSignal,
		SourceHighEngagement, SourceCertification, SourceTrafficAnalytics,
		SourceRepositoryTraffic, SourceSearchRanking:
		return true
	}
	return false
}

// ParseSource converts a raw string into a Source, rejecting unknown values.
func ParseSource(raw string) (Source, error) {
	s := Source(raw)
	if !s.Valid() {
		return "", fmt.Errorf("unknown activity source: %q", raw)
	}
	return s, nil
}

// Verb describes the action an activity represents.
type Verb string

const (
	VerbPublished Verb = "published"
	VerbUpdated   Verb = "updated"
	VerbLaunched  Verb = "launched"
	VerbReleased  Verb = "released"
	VerbCommitted Verb = "committed"
	VerbAchieved  Verb = "achieved"
	VerbEarned    Verb = "earned"
	VerbReached   Verb = "reached"
)

// Valid reports whether v is a member of the closed verb enumeration.
func (v Verb) Valid() bool {
	switch v {
	case VerbPublished, VerbUpdated, VerbLaunched, VerbReleased,
		VerbCommitted, VerbAchieved, VerbEarned, VerbReached:
		return true
	}
	return false
}

// ParseVerb converts a raw string into a Verb, rejecting unknown values.
func ParseVerb(raw string) (Verb, error) {
	v := Verb(raw)
	if !v.Valid() {
		return "", fmt.Errorf("unknown activity verb: %q", raw)
	}
	return v, nil
}

// Meta is the optional structured bag attached to an item. Correlation keys
// (RepoName, ParentContentID) are carried explicitly by the transformer that
// created the item; threading only falls back to title heuristics when they
// are absent.
type Meta struct {
	Tags            []string         `json:"tags,omitempty"`
	Category        string           `json:"category,omitempty"`
	Image           string           `json:"image,omitempty"`
	Engagement      *EngagementStats `json:"engagement,omitempty"`
	ReadingTime     string           `json:"readingTime,omitempty"`
	Status          string           `json:"status,omitempty"`
	RepoName        string           `json:"repoName,omitempty"`
	ParentContentID string           `json:"parentContentId,omitempty"`
}

// EngagementStats holds the raw counters a producer reported for an item.
type EngagementStats struct {
	Views    int `json:"views"`
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
}

// Validate checks the invariants every item handed to the core must satisfy.
func (a ActivityItem) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("activity item missing id")
	}
	if !a.Source.Valid() {
		return fmt.Errorf("activity item %s: unknown source %q", a.ID, a.Source)
	}
	if !a.Verb.Valid() {
		return fmt.Errorf("activity item %s: unknown verb %q", a.ID, a.Verb)
	}
	if a.Timestamp.IsZero() {
		return fmt.Errorf("activity item %s: zero timestamp", a.ID)
	}
	return nil
}

// Tags returns the item's tag list, or nil when no meta is attached.
func (a ActivityItem) Tags() []string {
	if a.Meta == nil {
		return nil
	}
	return a.Meta.Tags
}

// Category returns the item's category, or "" when no meta is attached.
func (a ActivityItem) Category() string {
	if a.Meta == nil {
		return ""
	}
	return a.Meta.Category
}
