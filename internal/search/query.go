package search

import (
	"errors"
	"strings"
)

// ErrUnterminatedQuote signals a malformed query with an unclosed phrase.
// This is a usage bug, not a runtime condition, so it fails loudly.
var ErrUnterminatedQuote = errors.New("search query: unterminated quote")

// ParsedQuery is the structured form of the query DSL.
type ParsedQuery struct {
	// Terms are free-text words matched against the fuzzy index (AND).
	Terms []string

	// Phrases are exact-match requirements from quoted segments.
	Phrases []string

	// TagFilters require the item's tag set to contain a case-insensitive
	// substring match.
	TagFilters []string

	// SourceFilters require an exact source match.
	SourceFilters []string

	// ExcludeSources drop items whose source equals the value.
	ExcludeSources []string
}

// IsEmpty reports whether the parsed query constrains anything at all.
func (p ParsedQuery) IsEmpty() bool {
	return len(p.Terms) == 0 && len(p.Phrases) == 0 &&
		len(p.TagFilters) == 0 && len(p.SourceFilters) == 0 &&
		len(p.ExcludeSources) == 0
}

// HasFreeText reports whether the query carries terms or phrases for the
// index, as opposed to pure post-filters.
func (p ParsedQuery) HasFreeText() bool {
	return len(p.Terms) > 0 || len(p.Phrases) > 0
}

// ParseQuery splits a raw query string into phrases, field operators
// (tag:, source:), source exclusions (-value), and free text.
func ParseQuery(raw string) (ParsedQuery, error) {
	var parsed ParsedQuery

	rest := raw
	for {
		start := strings.IndexByte(rest, '"')
		if start < 0 {
			break
		}
		end := strings.IndexByte(rest[start+1:], '"')
		if end < 0 {
			return ParsedQuery{}, ErrUnterminatedQuote
		}
		phrase := strings.TrimSpace(rest[start+1 : start+1+end])
		if phrase != "" {
			parsed.Phrases = append(parsed.Phrases, strings.ToLower(phrase))
		}
		rest = rest[:start] + " " + rest[start+2+end:]
	}

	for _, token := range strings.Fields(rest) {
		lower := strings.ToLower(token)
		switch {
		case strings.HasPrefix(lower, "tag:"):
			if v := lower[len("tag:"):]; v != "" {
				parsed.TagFilters = append(parsed.TagFilters, v)
			}
		case strings.HasPrefix(lower, "source:"):
			if v := lower[len("source:"):]; v != "" {
				parsed.SourceFilters = append(parsed.SourceFilters, v)
			}
		case strings.HasPrefix(lower, "-") && len(lower) > 1:
			parsed.ExcludeSources = append(parsed.ExcludeSources, lower[1:])
		default:
			parsed.Terms = append(parsed.Terms, lower)
		}
	}

	return parsed, nil
}
