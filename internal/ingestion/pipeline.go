package ingestion

import (
	"context"
	"log/slog"
	"sync"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/feed"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

// Pipeline fans refreshes out across transformers and merges the results into
// one validated item set. Every transformer degrades independently: a failed
// fetch contributes an empty batch and a warning, never an error to the
// caller.
type Pipeline struct {
	transformers []Transformer
	logger       *slog.Logger
}

// NewPipeline constructs a Pipeline over the given transformers.
func NewPipeline(logger *slog.Logger, transformers ...Transformer) *Pipeline {
	return &Pipeline{transformers: transformers, logger: logger}
}

// Refresh fetches all sources concurrently and returns the merged,
// deduplicated, invariant-checked item set. Items that violate the canonical
// invariants are dropped with a structured warning; the caller always
// receives a usable (possibly empty) result.
func (p *Pipeline) Refresh(ctx context.Context) []models.ActivityItem {
	batches := make([][]models.ActivityItem, len(p.transformers))

	var wg sync.WaitGroup
	for i, tr := range p.transformers {
		wg.Add(1)
		go func(i int, tr Transformer) {
			defer wg.Done()
			items, err := tr.Transform(ctx)
			if err != nil {
				p.logger.Warn("transformer failed, substituting empty result",
					"transformer", tr.Name(), "error", err)
				return
			}
			batches[i] = p.validate(tr.Name(), items)
		}(i, tr)
	}
	wg.Wait()

	return feed.Merge(batches...)
}

// validate drops items violating the canonical invariants.
func (p *Pipeline) validate(name string, items []models.ActivityItem) []models.ActivityItem {
	valid := make([]models.ActivityItem, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			p.logger.Warn("dropping invalid activity item",
				"transformer", name, "item_id", item.ID, "error", err)
			continue
		}
		valid = append(valid, item)
	}
	return valid
}
