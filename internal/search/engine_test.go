package search

import (
	"testing"
	"time"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

func searchItem(id, title string, source models.Source, tags ...string) models.ActivityItem {
	return models.ActivityItem{
		ID:        id,
		Source:    source,
		Verb:      models.VerbPublished,
		Title:     title,
		Timestamp: time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Meta:      &models.Meta{Tags: tags},
	}
}

func TestParseQuery(t *testing.T) {
	parsed, err := ParseQuery(`tag:typescript source:code-commit -milestone "react hooks" fuzzy stuff`)
	if err != nil {
		t.Fatalf("ParseQuery() error = %v", err)
	}

	if len(parsed.Phrases) != 1 || parsed.Phrases[0] != "react hooks" {
		t.Errorf("phrases = %v", parsed.Phrases)
	}
	if len(parsed.TagFilters) != 1 || parsed.TagFilters[0] != "typescript" {
		t.Errorf("tag filters = %v", parsed.TagFilters)
	}
	if len(parsed.SourceFilters) != 1 || parsed.SourceFilters[0] != "code-commit" {
		t.Errorf("source filters = %v", parsed.SourceFilters)
	}
	if len(parsed.ExcludeSources) != 1 || parsed.ExcludeSources[0] != "milestone" {
		t.Errorf("exclusions = %v", parsed.ExcludeSources)
	}
	if len(parsed.Terms) != 2 || parsed.Terms[0] != "fuzzy" || parsed.Terms[1] != "stuff" {
		t.Errorf("terms = %v", parsed.Terms)
	}
}

func TestParseQuery_UnterminatedQuote(t *testing.T) {
	if _, err := ParseQuery(`"react hooks`); err != ErrUnterminatedQuote {
		t.Errorf("error = %v, want ErrUnterminatedQuote", err)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	items := []models.ActivityItem{
		searchItem("a", "First", models.SourceContentPublication),
		searchItem("b", "Second", models.SourceCodeCommit),
		searchItem("c", "Third", models.SourceMilestone),
	}
	engine := NewEngine(items)

	results, err := engine.Search("")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(results) != len(items) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(items))
	}
	for i, r := range results {
		if r.Item.ID != items[i].ID {
			t.Errorf("position %d = %s, want original order %s", i, r.Item.ID, items[i].ID)
		}
		if r.Score != 1 {
			t.Errorf("score = %v, want uniform 1", r.Score)
		}
	}
	if len(engine.History()) != 0 {
		t.Error("empty query must not be recorded in history")
	}
}

func TestSearch_DSLScenario(t *testing.T) {
	items := []models.ActivityItem{
		searchItem("match", "Understanding React Hooks", models.SourceContentPublication, "typescript", "react"),
		searchItem("wrong-tag", "Understanding React Hooks", models.SourceContentPublication, "python"),
		searchItem("wrong-source", "Understanding React Hooks", models.SourceCodeCommit, "typescript"),
	}
	engine := NewEngine(items)

	results, err := engine.Search(`tag:typescript source:content-publication "react hooks"`)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(results) != 1 {
		t.Fatalf("len(results) = %d, want exactly 1", len(results))
	}
	if results[0].Item.ID != "match" {
		t.Errorf("result = %s, want match", results[0].Item.ID)
	}
	if results[0].Score <= 0 {
		t.Errorf("score = %v, want > 0", results[0].Score)
	}
}

func TestSearch_ExcludeSource(t *testing.T) {
	items := []models.ActivityItem{
		searchItem("keep", "Search internals", models.SourceContentPublication),
		searchItem("drop", "Search internals", models.SourceMilestone),
	}
	engine := NewEngine(items)

	results, err := engine.Search("search -milestone")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(results) != 1 || results[0].Item.ID != "keep" {
		t.Errorf("results = %+v, want single keep", results)
	}
}

func TestSearch_TitleOutweighsDescription(t *testing.T) {
	inTitle := searchItem("title-hit", "Profiling Go services", models.SourceContentPublication)
	inDesc := searchItem("desc-hit", "Weekly notes", models.SourceContentPublication)
	inDesc.Description = "profiling a slow endpoint"
	engine := NewEngine([]models.ActivityItem{inDesc, inTitle})

	results, err := engine.Search("profiling")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Item.ID != "title-hit" {
		t.Errorf("first result = %s, want title-hit (title weight)", results[0].Item.ID)
	}
}

func TestSearch_FuzzyAndPrefix(t *testing.T) {
	items := []models.ActivityItem{
		searchItem("a", "Kubernetes migration complete", models.SourceContentPublication),
	}
	engine := NewEngine(items)

	tests := []struct {
		name  string
		query string
	}{
		{"prefix", "kuber"},
		{"one edit", "kubernetas"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := engine.Search(tt.query)
			if err != nil {
				t.Fatalf("Search(%q) error = %v", tt.query, err)
			}
			if len(results) != 1 {
				t.Errorf("Search(%q) returned %d results, want 1", tt.query, len(results))
			}
		})
	}
}

func TestSearch_ConjunctiveTerms(t *testing.T) {
	items := []models.ActivityItem{
		searchItem("both", "Search index rebuild", models.SourceContentPublication),
		searchItem("one", "Search history", models.SourceContentPublication),
	}
	engine := NewEngine(items)

	results, err := engine.Search("search index")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if len(results) != 1 || results[0].Item.ID != "both" {
		t.Errorf("results = %+v, want only the item matching every term", results)
	}
}

func TestSearch_History(t *testing.T) {
	engine := NewEngine([]models.ActivityItem{
		searchItem("a", "Something", models.SourceContentPublication),
	})

	for i, q := range []string{"alpha", "beta", "alpha"} {
		if _, err := engine.Search(q); err != nil {
			t.Fatalf("query %d: %v", i, err)
		}
	}

	history := engine.History()
	if len(history) != 2 {
		t.Fatalf("len(history) = %d, want 2 after dedup", len(history))
	}
	if history[0].Query != "alpha" || history[1].Query != "beta" {
		t.Errorf("history = %v, want [alpha beta]", history)
	}
}

func TestSearch_HistoryCap(t *testing.T) {
	engine := NewEngine(nil)
	queries := []string{"q0", "q1", "q2", "q3", "q4", "q5", "q6", "q7", "q8", "q9", "q10", "q11"}
	for _, q := range queries {
		if _, err := engine.Search(q); err != nil {
			t.Fatal(err)
		}
	}

	history := engine.History()
	if len(history) != historyCap {
		t.Fatalf("len(history) = %d, want %d", len(history), historyCap)
	}
	if history[0].Query != "q11" {
		t.Errorf("most recent = %s, want q11", history[0].Query)
	}
}

func TestWithinEditDistance(t *testing.T) {
	tests := []struct {
		a, b string
		max  int
		want bool
	}{
		{"golang", "golang", 1, true},
		{"golang", "golnag", 2, true},
		{"golang", "python", 2, false},
		{"search", "searhc", 2, true},
		{"ab", "abcd", 1, false},
	}

	for _, tt := range tests {
		if got := withinEditDistance(tt.a, tt.b, tt.max); got != tt.want {
			t.Errorf("withinEditDistance(%q, %q, %d) = %v, want %v", tt.a, tt.b, tt.max, got, tt.want)
		}
	}
}

func TestSearch_RepeatedTagTokenCountsOnce(t *testing.T) {
	// "react" tokenizes out of both tags on the first item; it must post once
	// so repeated tags cannot outscore a single clean match.
	engine := NewEngine([]models.ActivityItem{
		searchItem("a", "First post", models.SourceContentPublication, "react", "react-native"),
		searchItem("b", "Second post", models.SourceContentPublication, "react"),
	})

	results, err := engine.Search("react")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if results[0].Score != results[1].Score {
		t.Errorf("scores differ: %v vs %v", results[0].Score, results[1].Score)
	}
}
