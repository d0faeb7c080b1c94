package api

import (
	"sync"
	"time"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/feed"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/search"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/topics"
)

// Snapshot holds the current in-memory item set and every derived view. The
// core algorithms are pure; the snapshot is the one place concurrent access
// meets them, so it owns the lock.
type Snapshot struct {
	mu        sync.RWMutex
	items     []models.ActivityItem
	threads   []models.ActivityThread
	topics    []models.Topic
	engine    *search.Engine
	builtAt   time.Time
	threader  *feed.Threader
	extractor *topics.Extractor
}

// NewSnapshot constructs an empty snapshot with the given derivation engines.
func NewSnapshot(threader *feed.Threader, extractor *topics.Extractor) *Snapshot {
	return &Snapshot{
		threader:  threader,
		extractor: extractor,
		engine:    search.NewEngine(nil),
	}
}

// Update replaces the item set and rebuilds the derived views. Items must
// already be sorted by timestamp descending.
func (s *Snapshot) Update(items []models.ActivityItem) {
	threads := s.threader.BuildThreads(items)
	topicList := s.extractor.Extract(items)
	engine := search.NewEngine(items)

	s.mu.Lock()
	engine.SetHistory(s.engine.History())
	s.items = items
	s.threads = threads
	s.topics = topicList
	s.engine = engine
	s.builtAt = time.Now()
	s.mu.Unlock()
}

// Items returns the current item set.
func (s *Snapshot) Items() []models.ActivityItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items
}

// Threads returns the current thread view.
func (s *Snapshot) Threads() []models.ActivityThread {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.threads
}

// Topics returns the current topic vocabulary.
func (s *Snapshot) Topics() []models.Topic {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.topics
}

// Search executes a query against the current index. The write lock covers
// the engine's history mutation.
func (s *Snapshot) Search(query string) ([]models.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.engine.Search(query)
}

// SearchHistory returns the recent-query list.
func (s *Snapshot) SearchHistory() []models.SearchHistoryEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine.History()
}

// SeedSearchHistory restores persisted history into the engine, typically
// once at startup before the first refresh.
func (s *Snapshot) SeedSearchHistory(entries []models.SearchHistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engine.SetHistory(entries)
}

// Item looks up one item by id.
func (s *Snapshot) Item(id string) (models.ActivityItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.ActivityItem{}, false
}

// BuiltAt reports when the snapshot was last rebuilt.
func (s *Snapshot) BuiltAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.builtAt
}
