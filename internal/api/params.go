package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
)

// parseFeedQuery builds a FeedQuery from request query parameters.
// Supported: sources (comma-separated), after, before (RFC3339 or
// YYYY-MM-DD), limit.
func parseFeedQuery(r *http.Request) (models.FeedQuery, error) {
	var query models.FeedQuery
	params := r.URL.Query()

	if raw := params.Get("sources"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			source, err := models.ParseSource(part)
			if err != nil {
				return models.FeedQuery{}, err
			}
			query.Sources = append(query.Sources, source)
		}
	}

	if raw := params.Get("after"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			return models.FeedQuery{}, fmt.Errorf("invalid after: %w", err)
		}
		query.After = &t
	}

	if raw := params.Get("before"); raw != "" {
		t, err := parseTimeParam(raw)
		if err != nil {
			return models.FeedQuery{}, fmt.Errorf("invalid before: %w", err)
		}
		query.Before = &t
	}

	if raw := params.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return models.FeedQuery{}, fmt.Errorf("invalid limit: %w", err)
		}
		query.Limit = limit
	}

	if err := query.Validate(); err != nil {
		return models.FeedQuery{}, err
	}
	return query, nil
}

func parseTimeParam(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", raw)
}

func parseDateParam(raw string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return t, nil
}
