// Package search builds a field-weighted fuzzy index over activity items and
// executes a small query DSL against it.
package search

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

type field int

const (
	fieldTitle field = iota
	fieldTags
	fieldCategory
	fieldDescription
)

// Title matches dominate; tags carry more signal than prose.
var fieldWeights = [...]float64{
	fieldTitle:       3.0,
	fieldTags:        2.0,
	fieldCategory:    1.5,
	fieldDescription: 1.0,
}

var fieldNames = [...]string{
	fieldTitle:       "title",
	fieldTags:        "tags",
	fieldCategory:    "category",
	fieldDescription: "description",
}

const (
	exactQuality  = 1.0
	prefixQuality = 0.75
	fuzzyQuality  = 0.5
	phraseWeight  = 3.0

	historyCap = 10
)

type posting struct {
	item  int
	field field
}

// Engine is an in-memory index over one item snapshot. It is not safe for
// concurrent use; build a fresh engine per snapshot and serialize access.
type Engine struct {
	items   []models.ActivityItem
	index   map[string][]posting
	history []models.SearchHistoryEntry
	now     func() time.Time
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// NewEngine indexes the given items. The slice is retained, not copied;
// callers must treat it as immutable for the engine's lifetime.
func NewEngine(items []models.ActivityItem) *Engine {
	e := &Engine{
		items: items,
		index: make(map[string][]posting),
		now:   time.Now,
	}
	for i, item := range items {
		e.indexField(i, fieldTitle, item.Title)
		e.indexField(i, fieldDescription, item.Description)
		e.indexField(i, fieldCategory, item.Category())
		e.indexField(i, fieldTags, strings.Join(item.Tags(), " "))
	}
	return e
}

// indexField tokenizes one field's text and posts each distinct token once,
// so repeated tokens within a field cannot inflate that field's score.
func (e *Engine) indexField(item int, f field, text string) {
	if text == "" {
		return
	}
	seen := make(map[string]struct{})
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if len(tok) < 2 {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		e.index[tok] = append(e.index[tok], posting{item: item, field: f})
	}
}

// Search parses the query and returns scored results per the DSL semantics.
// An empty query returns every item with a uniform neutral score in original
// order and is not recorded in history.
func (e *Engine) Search(query string) ([]models.SearchResult, error) {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return e.allNeutral(), nil
	}

	parsed, err := ParseQuery(trimmed)
	if err != nil {
		return nil, err
	}

	candidates := e.candidates(parsed)
	results := e.postFilter(candidates, parsed)

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	e.record(trimmed, len(results))
	return results, nil
}

// History returns executed queries, most recent first.
func (e *Engine) History() []models.SearchHistoryEntry {
	out := make([]models.SearchHistoryEntry, len(e.history))
	copy(out, e.history)
	return out
}

// SetHistory replaces the history list, truncating to the cap. Used to carry
// recent queries across index rebuilds and to restore persisted history.
func (e *Engine) SetHistory(entries []models.SearchHistoryEntry) {
	if len(entries) > historyCap {
		entries = entries[:historyCap]
	}
	e.history = make([]models.SearchHistoryEntry, len(entries))
	copy(e.history, entries)
}

// candidate accumulates match evidence for one item.
type candidate struct {
	score  float64
	terms  map[string]struct{}
	fields map[field]struct{}
}

func (e *Engine) candidates(parsed ParsedQuery) map[int]*candidate {
	if !parsed.HasFreeText() {
		// Pure post-filter query: every item starts equally scored.
		all := make(map[int]*candidate, len(e.items))
		for i := range e.items {
			all[i] = &candidate{score: 1}
		}
		return all
	}

	var current map[int]*candidate

	for _, term := range parsed.Terms {
		matches := e.matchTerm(term)
		if current == nil {
			current = matches
			continue
		}
		// Conjunctive: drop items the new term did not match.
		for idx, cand := range current {
			m, ok := matches[idx]
			if !ok {
				delete(current, idx)
				continue
			}
			cand.score += m.score
			for t := range m.terms {
				cand.terms[t] = struct{}{}
			}
			for f := range m.fields {
				cand.fields[f] = struct{}{}
			}
		}
	}

	if len(parsed.Terms) == 0 {
		current = make(map[int]*candidate, len(e.items))
		for i := range e.items {
			current[i] = &candidate{score: 1}
		}
	}

	for _, phrase := range parsed.Phrases {
		for idx, cand := range current {
			f, ok := e.phraseField(idx, phrase)
			if !ok {
				delete(current, idx)
				continue
			}
			cand.score += phraseWeight * fieldWeights[f]
			if cand.fields == nil {
				cand.fields = make(map[field]struct{})
			}
			cand.fields[f] = struct{}{}
		}
	}

	return current
}

// matchTerm scans index tokens for exact, prefix, and small-edit-distance
// matches, keeping the best quality per item.
func (e *Engine) matchTerm(term string) map[int]*candidate {
	maxDist := editBudget(term)
	matches := make(map[int]*candidate)

	for tok, postings := range e.index {
		var quality float64
		switch {
		case tok == term:
			quality = exactQuality
		case strings.HasPrefix(tok, term):
			quality = prefixQuality
		case maxDist > 0 && withinEditDistance(tok, term, maxDist):
			quality = fuzzyQuality
		default:
			continue
		}

		for _, p := range postings {
			cand, ok := matches[p.item]
			if !ok {
				cand = &candidate{
					terms:  make(map[string]struct{}),
					fields: make(map[field]struct{}),
				}
				matches[p.item] = cand
			}
			cand.score += quality * fieldWeights[p.field]
			cand.terms[term] = struct{}{}
			cand.fields[p.field] = struct{}{}
		}
	}

	return matches
}

// editBudget returns the tolerated edit distance for a term. Short terms get
// none: a one-letter slip in "go" matches far too much.
func editBudget(term string) int {
	switch {
	case len(term) < 4:
		return 0
	case len(term) <= 7:
		return 1
	default:
		return 2
	}
}

// phraseField reports which field of the item contains the phrase, preferring
// the heaviest field.
func (e *Engine) phraseField(idx int, phrase string) (field, bool) {
	item := e.items[idx]
	if strings.Contains(strings.ToLower(item.Title), phrase) {
		return fieldTitle, true
	}
	for _, tag := range item.Tags() {
		if strings.Contains(strings.ToLower(tag), phrase) {
			return fieldTags, true
		}
	}
	if strings.Contains(strings.ToLower(item.Category()), phrase) {
		return fieldCategory, true
	}
	if strings.Contains(strings.ToLower(item.Description), phrase) {
		return fieldDescription, true
	}
	return 0, false
}

func (e *Engine) postFilter(candidates map[int]*candidate, parsed ParsedQuery) []models.SearchResult {
	// Walk in original item order so equal scores keep feed order.
	results := make([]models.SearchResult, 0, len(candidates))

	for idx := range e.items {
		cand, ok := candidates[idx]
		if !ok {
			continue
		}
		item := e.items[idx]

		if !matchesTagFilters(item, parsed.TagFilters) {
			continue
		}
		if !matchesSourceFilters(item, parsed.SourceFilters) {
			continue
		}
		if excludedSource(item, parsed.ExcludeSources) {
			continue
		}

		results = append(results, models.SearchResult{
			Item:          item,
			Score:         cand.score,
			MatchedTerms:  sortedKeys(cand.terms),
			MatchedFields: sortedFieldNames(cand.fields),
		})
	}

	return results
}

func matchesTagFilters(item models.ActivityItem, filters []string) bool {
	for _, want := range filters {
		found := false
		for _, tag := range item.Tags() {
			if strings.Contains(strings.ToLower(tag), want) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func matchesSourceFilters(item models.ActivityItem, filters []string) bool {
	for _, want := range filters {
		if string(item.Source) != want {
			return false
		}
	}
	return true
}

func excludedSource(item models.ActivityItem, excluded []string) bool {
	for _, e := range excluded {
		if string(item.Source) == e {
			return true
		}
	}
	return false
}

func (e *Engine) allNeutral() []models.SearchResult {
	results := make([]models.SearchResult, len(e.items))
	for i, item := range e.items {
		results[i] = models.SearchResult{Item: item, Score: 1}
	}
	return results
}

// record appends to history with exact-string dedup, capped at the most
// recent entries.
func (e *Engine) record(query string, count int) {
	entry := models.SearchHistoryEntry{
		Query:       query,
		ResultCount: count,
		ExecutedAt:  e.now(),
	}
	next := []models.SearchHistoryEntry{entry}
	for _, prev := range e.history {
		if prev.Query == query {
			continue
		}
		next = append(next, prev)
		if len(next) == historyCap {
			break
		}
	}
	e.history = next
}

func sortedKeys(set map[string]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedFieldNames(set map[field]struct{}) []string {
	if len(set) == 0 {
		return nil
	}
	names := make([]string, 0, len(set))
	for f := range set {
		names = append(names, fieldNames[f])
	}
	sort.Strings(names)
	return names
}

// withinEditDistance reports whether the Levenshtein distance between a and b
// is at most max, with an early row-minimum cutoff.
func withinEditDistance(a, b string, max int) bool {
	la, lb := len(a), len(b)
	diff := la - lb
	if diff < 0 {
		diff = -diff
	}
	if diff > max {
		return false
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}

	for i := 1; i <= la; i++ {
		curr[0] = i
		rowMin := curr[0]
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			del := prev[j] + 1
			ins := curr[j-1] + 1
			sub := prev[j-1] + cost
			m := del
			if ins < m {
				m = ins
			}
			if sub < m {
				m = sub
			}
			curr[j] = m
			if m < rowMin {
				rowMin = m
			}
		}
		if rowMin > max {
			return false
		}
		prev, curr = curr, prev
	}

	return prev[lb] <= max
}
