package ingestion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

type failingTransformer struct{ name string }

func (f *failingTransformer) Name() string { return f.name }

func (f *failingTransformer) Transform(_ context.Context) ([]models.ActivityItem, error) {
	return nil, errors.New("upstream unavailable")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func validItem(id string) models.ActivityItem {
	return models.ActivityItem{
		ID:        id,
		Source:    models.SourceContentPublication,
		Verb:      models.VerbPublished,
		Title:     "item " + id,
		Timestamp: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestPipeline_Refresh_MergesSources(t *testing.T) {
	p := NewPipeline(discardLogger(),
		NewStaticTransformer("blog", []models.ActivityItem{validItem("a"), validItem("b")}),
		NewStaticTransformer("repos", []models.ActivityItem{validItem("c")}),
	)

	items := p.Refresh(context.Background())

	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
}

func TestPipeline_Refresh_DegradesOnFailure(t *testing.T) {
	p := NewPipeline(discardLogger(),
		&failingTransformer{name: "flaky"},
		NewStaticTransformer("blog", []models.ActivityItem{validItem("a")}),
	)

	items := p.Refresh(context.Background())

	if len(items) != 1 || items[0].ID != "a" {
		t.Errorf("items = %+v, want the healthy source's single item", items)
	}
}

func TestPipeline_Refresh_DropsInvalidItems(t *testing.T) {
	bad := validItem("bad")
	bad.Source = "carrier-pigeon"

	p := NewPipeline(discardLogger(),
		NewStaticTransformer("blog", []models.ActivityItem{validItem("good"), bad}),
	)

	items := p.Refresh(context.Background())

	if len(items) != 1 || items[0].ID != "good" {
		t.Errorf("items = %+v, want invalid item dropped", items)
	}
}

func TestPipeline_Refresh_DedupesAcrossSources(t *testing.T) {
	p := NewPipeline(discardLogger(),
		NewStaticTransformer("one", []models.ActivityItem{validItem("dup")}),
		NewStaticTransformer("two", []models.ActivityItem{validItem("dup")}),
	)

	items := p.Refresh(context.Background())

	if len(items) != 1 {
		t.Errorf("len(items) = %d, want duplicate id collapsed", len(items))
	}
}

func TestRetry_StopsOnNonRetryable(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), DefaultRetryPolicy(), func() error {
		calls++
		return errors.New("fatal")
	})

	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 for non-retryable error", calls)
	}
}

func TestRetry_RetriesRetryable(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     time.Millisecond,
		BackoffFactor:  1,
	}

	calls := 0
	err := Retry(context.Background(), policy, func() error {
		calls++
		if calls < 3 {
			return &RetryableError{Err: errors.New("transient")}
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Retry() error = %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}
