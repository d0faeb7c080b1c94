// Package topics clusters free-text and tag metadata into a canonical topic
// vocabulary with co-occurrence ranking.
package topics

import (
	"regexp"
	"sort"
	"strings"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

// Options tunes topic extraction.
type Options struct {
	// MinTokenLength drops keyword tokens shorter than this. Tags and
	// categories are exempt.
	MinTokenLength int

	// IncludeKeywords adds tokenized title/description words to the tag and
	// category topics.
	IncludeKeywords bool

	// MaxRelated caps the related-topics list per topic.
	MaxRelated int
}

// DefaultOptions returns the extraction defaults.
func DefaultOptions() Options {
	return Options{MinTokenLength: 4, IncludeKeywords: false, MaxRelated: 5}
}

// aliases maps lowercase variant spellings to one canonical display form.
// Unmapped tokens are title-cased.
var aliases = map[string]string{
	"go":            "Go",
	"golang":        "Go",
	"js":            "JavaScript",
	"javascript":    "JavaScript",
	"ts":            "TypeScript",
	"typescript":    "TypeScript",
	"react":         "React",
	"reactjs":       "React",
	"react.js":      "React",
	"next":          "Next.js",
	"nextjs":        "Next.js",
	"next.js":       "Next.js",
	"node":          "Node.js",
	"nodejs":        "Node.js",
	"node.js":       "Node.js",
	"k8s":           "Kubernetes",
	"kubernetes":    "Kubernetes",
	"postgres":      "PostgreSQL",
	"postgresql":    "PostgreSQL",
	"ai":            "AI",
	"ml":            "Machine Learning",
	"css":           "CSS",
	"html":          "HTML",
	"api":           "API",
	"apis":          "API",
	"cli":           "CLI",
	"devops":        "DevOps",
	"ci/cd":         "CI/CD",
	"cicd":          "CI/CD",
	"oss":           "Open Source",
	"open-source":   "Open Source",
	"opensource":    "Open Source",
	"webdev":        "Web Development",
	"accessibility": "Accessibility",
	"a11y":          "Accessibility",
}

// stopWords are tokens with no topical signal.
var stopWords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "with": {}, "from": {}, "that": {},
	"this": {}, "have": {}, "has": {}, "was": {}, "are": {}, "were": {},
	"been": {}, "into": {}, "over": {}, "about": {}, "after": {}, "more": {},
	"than": {}, "when": {}, "what": {}, "how": {}, "why": {}, "your": {},
	"using": {}, "used": {}, "new": {}, "now": {}, "you": {}, "our": {},
	"all": {}, "can": {}, "will": {}, "just": {}, "not": {}, "but": {},
	"its": {}, "it's": {}, "via": {}, "per": {}, "also": {},
}

// Extractor derives a canonical topic vocabulary from an item set.
type Extractor struct {
	opts Options
}

// NewExtractor constructs an Extractor, substituting defaults for unset
// options.
func NewExtractor(opts Options) *Extractor {
	def := DefaultOptions()
	if opts.MinTokenLength <= 0 {
		opts.MinTokenLength = def.MinTokenLength
	}
	if opts.MaxRelated <= 0 {
		opts.MaxRelated = def.MaxRelated
	}
	return &Extractor{opts: opts}
}

// Normalize maps a raw label to its canonical display form. Known aliases
// collapse to one spelling regardless of casing; unmapped labels are
// title-cased. Normalizing an already-canonical name returns it unchanged.
func Normalize(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if key == "" {
		return ""
	}
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return titleCase(key)
}

var wordBoundary = regexp.MustCompile(`[^a-z0-9']+`)

// Tokenize lowercases text, splits on non-word boundaries, and drops short or
// stop-listed tokens.
func Tokenize(text string, minLen int) []string {
	lowered := strings.ToLower(text)
	parts := wordBoundary.Split(lowered, -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if len(p) < minLen {
			continue
		}
		if _, stop := stopWords[p]; stop {
			continue
		}
		tokens = append(tokens, p)
	}
	return tokens
}

// Extract counts normalized topics across the item set and ranks them by
// frequency, attaching each topic's share of scanned items and its top
// co-occurring topics.
func (e *Extractor) Extract(items []models.ActivityItem) []models.Topic {
	if len(items) == 0 {
		return nil
	}

	counts := make(map[string]int)
	cooccur := make(map[string]map[string]int)

	for _, item := range items {
		set := e.itemTopics(item)
		if len(set) == 0 {
			continue
		}
		names := make([]string, 0, len(set))
		for name := range set {
			names = append(names, name)
			counts[name]++
		}
		sort.Strings(names)
		for i := 0; i < len(names); i++ {
			for j := i + 1; j < len(names); j++ {
				bump(cooccur, names[i], names[j])
				bump(cooccur, names[j], names[i])
			}
		}
	}

	topics := make([]models.Topic, 0, len(counts))
	for name, count := range counts {
		topics = append(topics, models.Topic{
			Name:          name,
			Count:         count,
			Percentage:    float64(count) / float64(len(items)) * 100,
			RelatedTopics: topRelated(cooccur[name], e.opts.MaxRelated),
		})
	}

	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Name < topics[j].Name
	})

	return topics
}

// FilterByTopics keeps items whose own topic set intersects the selection.
// OR semantics: any overlap admits the item.
func (e *Extractor) FilterByTopics(items []models.ActivityItem, selected []string) []models.ActivityItem {
	if len(selected) == 0 {
		return items
	}
	want := make(map[string]struct{}, len(selected))
	for _, s := range selected {
		if n := Normalize(s); n != "" {
			want[n] = struct{}{}
		}
	}

	out := make([]models.ActivityItem, 0, len(items))
	for _, item := range items {
		for name := range e.itemTopics(item) {
			if _, ok := want[name]; ok {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

// itemTopics collects the deduplicated normalized topic set for one item.
func (e *Extractor) itemTopics(item models.ActivityItem) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tag := range item.Tags() {
		if n := Normalize(tag); n != "" {
			set[n] = struct{}{}
		}
	}
	if cat := item.Category(); cat != "" {
		if n := Normalize(cat); n != "" {
			set[n] = struct{}{}
		}
	}
	if e.opts.IncludeKeywords {
		for _, tok := range Tokenize(item.Title+" "+item.Description, e.opts.MinTokenLength) {
			if n := Normalize(tok); n != "" {
				set[n] = struct{}{}
			}
		}
	}
	return set
}

func bump(m map[string]map[string]int, a, b string) {
	inner, ok := m[a]
	if !ok {
		inner = make(map[string]int)
		m[a] = inner
	}
	inner[b]++
}

func topRelated(counts map[string]int, max int) []string {
	if len(counts) == 0 {
		return nil
	}
	type pair struct {
		name  string
		count int
	}
	pairs := make([]pair, 0, len(counts))
	for name, count := range counts {
		pairs = append(pairs, pair{name, count})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].name < pairs[j].name
	})
	if len(pairs) > max {
		pairs = pairs[:max]
	}
	names := make([]string, len(pairs))
	for i, p := range pairs {
		names[i] = p.name
	}
	return names
}

// titleCase uppercases the first letter of each hyphen- or space-separated
// word, leaving the rest lowercase.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	upperNext := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '-' || r == '/':
			upperNext = true
			b.WriteRune(r)
		case upperNext:
			b.WriteString(strings.ToUpper(string(r)))
			upperNext = false
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
