// Package statestore holds the persisted client-side documents (bookmarks,
// reactions, search history, filter presets) behind an explicit store
// boundary. Mutation functions are pure; the Store owns the only side effect.
package statestore

import (
	"time"

	"github.com/google/uuid"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

// Current schema versions. Readers reject or reset documents whose version
// does not match rather than trusting unversioned data.
const (
	BookmarksVersion     = 2
	ReactionsVersion     = 1
	SearchHistoryVersion = 1
	FilterPresetsVersion = 1
)

// Namespaced storage keys, one per document.
const (
	KeyBookmarks     = "activity:bookmarks"
	KeyReactions     = "activity:reactions"
	KeySearchHistory = "activity:search-history"
	KeyFilterPresets = "activity:filter-presets"
)

// Bookmark is one saved activity reference.
type Bookmark struct {
	ID         string    `json:"id"`
	ActivityID string    `json:"activityId"`
	Title      string    `json:"title"`
	Href       string    `json:"href,omitempty"`
	Source     string    `json:"source"`
	Tags       []string  `json:"tags,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// BookmarksDoc is the persisted bookmark collection.
type BookmarksDoc struct {
	Version      int        `json:"version"`
	Bookmarks    []Bookmark `json:"bookmarks"`
	LastModified time.Time  `json:"lastModified"`
}

// DefaultBookmarks returns an empty current-version document.
func DefaultBookmarks() BookmarksDoc {
	return BookmarksDoc{Version: BookmarksVersion}
}

// AddBookmark returns a new document with the item bookmarked. Re-bookmarking
// an already-saved activity is a no-op.
func AddBookmark(doc BookmarksDoc, item models.ActivityItem, now time.Time) BookmarksDoc {
	for _, b := range doc.Bookmarks {
		if b.ActivityID == item.ID {
			return doc
		}
	}
	next := doc
	next.Bookmarks = append(append([]Bookmark(nil), doc.Bookmarks...), Bookmark{
		ID:         uuid.NewString(),
		ActivityID: item.ID,
		Title:      item.Title,
		Href:       item.Href,
		Source:     string(item.Source),
		Tags:       item.Tags(),
		CreatedAt:  now,
	})
	next.LastModified = now
	return next
}

// RemoveBookmark returns a new document without the given activity.
func RemoveBookmark(doc BookmarksDoc, activityID string, now time.Time) BookmarksDoc {
	next := doc
	next.Bookmarks = make([]Bookmark, 0, len(doc.Bookmarks))
	removed := false
	for _, b := range doc.Bookmarks {
		if b.ActivityID == activityID {
			removed = true
			continue
		}
		next.Bookmarks = append(next.Bookmarks, b)
	}
	if removed {
		next.LastModified = now
	}
	return next
}

// ReactionsDoc stores per-activity reaction counts.
type ReactionsDoc struct {
	Version     int                       `json:"version"`
	Reactions   map[string]map[string]int `json:"reactions"`
	LastUpdated time.Time                 `json:"lastUpdated"`
}

// DefaultReactions returns an empty current-version document.
func DefaultReactions() ReactionsDoc {
	return ReactionsDoc{Version: ReactionsVersion, Reactions: map[string]map[string]int{}}
}

// AddReaction returns a new document with one more of the named reaction on
// the activity.
func AddReaction(doc ReactionsDoc, activityID, reaction string, now time.Time) ReactionsDoc {
	next := doc
	next.Reactions = make(map[string]map[string]int, len(doc.Reactions)+1)
	for id, counts := range doc.Reactions {
		copied := make(map[string]int, len(counts))
		for k, v := range counts {
			copied[k] = v
		}
		next.Reactions[id] = copied
	}
	if next.Reactions[activityID] == nil {
		next.Reactions[activityID] = map[string]int{}
	}
	next.Reactions[activityID][reaction]++
	next.LastUpdated = now
	return next
}

// SearchHistoryDoc persists the engine's recent-query list.
type SearchHistoryDoc struct {
	Version     int                         `json:"version"`
	Entries     []models.SearchHistoryEntry `json:"entries"`
	LastUpdated time.Time                   `json:"lastUpdated"`
}

// DefaultSearchHistory returns an empty current-version document.
func DefaultSearchHistory() SearchHistoryDoc {
	return SearchHistoryDoc{Version: SearchHistoryVersion}
}

const historyCap = 10

// RecordSearch returns a new document with the query prepended, deduplicated
// by exact query string and capped at the most recent entries.
func RecordSearch(doc SearchHistoryDoc, query string, resultCount int, now time.Time) SearchHistoryDoc {
	next := doc
	next.Entries = []models.SearchHistoryEntry{{
		Query:       query,
		ResultCount: resultCount,
		ExecutedAt:  now,
	}}
	for _, e := range doc.Entries {
		if e.Query == query {
			continue
		}
		next.Entries = append(next.Entries, e)
		if len(next.Entries) == historyCap {
			break
		}
	}
	next.LastUpdated = now
	return next
}

// FilterPreset is a saved feed filter combination.
type FilterPreset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Sources   []string  `json:"sources,omitempty"`
	Topics    []string  `json:"topics,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// FilterPresetsDoc is the persisted preset collection.
type FilterPresetsDoc struct {
	Version      int            `json:"version"`
	Presets      []FilterPreset `json:"presets"`
	LastModified time.Time      `json:"lastModified"`
}

// DefaultFilterPresets returns an empty current-version document.
func DefaultFilterPresets() FilterPresetsDoc {
	return FilterPresetsDoc{Version: FilterPresetsVersion}
}

// SavePreset returns a new document with the preset appended. A preset with
// the same name replaces the old one.
func SavePreset(doc FilterPresetsDoc, name string, sources, topicNames []string, now time.Time) FilterPresetsDoc {
	next := doc
	next.Presets = make([]FilterPreset, 0, len(doc.Presets)+1)
	for _, p := range doc.Presets {
		if p.Name == name {
			continue
		}
		next.Presets = append(next.Presets, p)
	}
	next.Presets = append(next.Presets, FilterPreset{
		ID:        uuid.NewString(),
		Name:      name,
		Sources:   sources,
		Topics:    topicNames,
		CreatedAt: now,
	})
	next.LastModified = now
	return next
}

// DeletePreset returns a new document without the named preset.
func DeletePreset(doc FilterPresetsDoc, id string, now time.Time) FilterPresetsDoc {
	next := doc
	next.Presets = make([]FilterPreset, 0, len(doc.Presets))
	removed := false
	for _, p := range doc.Presets {
		if p.ID == id {
			removed = true
			continue
		}
		next.Presets = append(next.Presets, p)
	}
	if removed {
		next.LastModified = now
	}
	return next
}
