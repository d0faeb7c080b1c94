// Package ingestion defines the producer boundary: transformers that map a
// source's native shape into canonical activity items, and the pipeline that
// fans fetches out and merges the results.
package ingestion

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

// Transformer is implemented by every source adapter. Transform must never
// panic past its own boundary: a failed fetch is returned as an error, and
// the pipeline substitutes an empty result.
type Transformer interface {
	// Name identifies the transformer for logs and metrics.
	Name() string

	// Transform produces the source's current activity items.
	Transform(ctx context.Context) ([]models.ActivityItem, error)
}

// StaticTransformer serves a fixed item set. Used for in-process content that
// needs no fetching, and as a test double.
type StaticTransformer struct {
	name  string
	items []models.ActivityItem
}

// NewStaticTransformer copies the given items into a static source.
func NewStaticTransformer(name string, items []models.ActivityItem) *StaticTransformer {
	copied := make([]models.ActivityItem, len(items))
	copy(copied, items)
	return &StaticTransformer{name: name, items: copied}
}

func (s *StaticTransformer) Name() string { return s.name }

func (s *StaticTransformer) Transform(_ context.Context) ([]models.ActivityItem, error) {
	out := make([]models.ActivityItem, len(s.items))
	copy(out, s.items)
	return out, nil
}

// SnapshotFileTransformer reads a JSON array of activity items from disk on
// every refresh. The file is the hand-off point for out-of-process producers.
type SnapshotFileTransformer struct {
	name string
	path string
}

// NewSnapshotFileTransformer constructs a file-backed source.
func NewSnapshotFileTransformer(name, path string) *SnapshotFileTransformer {
	return &SnapshotFileTransformer{name: name, path: path}
}

func (s *SnapshotFileTransformer) Name() string { return s.name }

func (s *SnapshotFileTransformer) Transform(_ context.Context) ([]models.ActivityItem, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.path, err)
	}
	var items []models.ActivityItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode snapshot %s: %w", s.path, err)
	}
	return items, nil
}
