package statestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrNotFound is returned by a Store when no document exists under the key.
var ErrNotFound = errors.New("statestore: document not found")

// Store persists versioned JSON documents under namespaced keys.
type Store interface {
	// Load decodes the document stored under key into v.
	Load(ctx context.Context, key string, v any) error

	// Save stores v as JSON under key, replacing any previous document.
	Save(ctx context.Context, key string, v any) error
}

// MemoryStore is a Store backed by a process-local map. Safe for concurrent
// use.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

// Load implements Store.
func (m *MemoryStore) Load(_ context.Context, key string, v any) error {
	m.mu.RLock()
	data, ok := m.docs[key]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode document %s: %w", key, err)
	}
	return nil
}

// Save implements Store.
func (m *MemoryStore) Save(_ context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode document %s: %w", key, err)
	}
	m.mu.Lock()
	m.docs[key] = data
	m.mu.Unlock()
	return nil
}

// LoadBookmarks loads the bookmark document, resetting to an empty default on
// missing, corrupt, or version-mismatched data. The caller is never blocked
// by bad state.
func LoadBookmarks(ctx context.Context, store Store, logger *slog.Logger) BookmarksDoc {
	var doc BookmarksDoc
	if err := store.Load(ctx, KeyBookmarks, &doc); err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("discarding unreadable bookmarks document", "error", err)
		}
		return DefaultBookmarks()
	}
	if doc.Version != BookmarksVersion {
		logger.Warn("discarding bookmarks document with stale schema",
			"found_version", doc.Version, "want_version", BookmarksVersion)
		return DefaultBookmarks()
	}
	return doc
}

// LoadReactions mirrors LoadBookmarks for the reactions document.
func LoadReactions(ctx context.Context, store Store, logger *slog.Logger) ReactionsDoc {
	var doc ReactionsDoc
	if err := store.Load(ctx, KeyReactions, &doc); err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("discarding unreadable reactions document", "error", err)
		}
		return DefaultReactions()
	}
	if doc.Version != ReactionsVersion {
		logger.Warn("discarding reactions document with stale schema",
			"found_version", doc.Version, "want_version", ReactionsVersion)
		return DefaultReactions()
	}
	if doc.Reactions == nil {
		doc.Reactions = map[string]map[string]int{}
	}
	return doc
}

// LoadSearchHistory mirrors LoadBookmarks for the search-history document.
func LoadSearchHistory(ctx context.Context, store Store, logger *slog.Logger) SearchHistoryDoc {
	var doc SearchHistoryDoc
	if err := store.Load(ctx, KeySearchHistory, &doc); err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("discarding unreadable search-history document", "error", err)
		}
		return DefaultSearchHistory()
	}
	if doc.Version != SearchHistoryVersion {
		logger.Warn("discarding search-history document with stale schema",
			"found_version", doc.Version, "want_version", SearchHistoryVersion)
		return DefaultSearchHistory()
	}
	return doc
}

// LoadFilterPresets mirrors LoadBookmarks for the filter-preset document.
func LoadFilterPresets(ctx context.Context, store Store, logger *slog.Logger) FilterPresetsDoc {
	var doc FilterPresetsDoc
	if err := store.Load(ctx, KeyFilterPresets, &doc); err != nil {
		if !errors.Is(err, ErrNotFound) {
			logger.Warn("discarding unreadable filter-preset document", "error", err)
		}
		return DefaultFilterPresets()
	}
	if doc.Version != FilterPresetsVersion {
		logger.Warn("discarding filter-preset document with stale schema",
			"found_version", doc.Version, "want_version", FilterPresetsVersion)
		return DefaultFilterPresets()
	}
	return doc
}
