package statestore

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ExportBookmarksJSON renders the bookmark collection as a versioned,
// human-readable JSON document.
func ExportBookmarksJSON(doc BookmarksDoc) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("export bookmarks json: %w", err)
	}
	return out, nil
}

// ExportBookmarksCSV renders the bookmark collection as CSV. Fields are
// quoted as needed and embedded quotes escaped by doubling, per RFC 4180.
func ExportBookmarksCSV(doc BookmarksDoc) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "activity_id", "title", "href", "source", "tags", "created_at"}); err != nil {
		return nil, fmt.Errorf("export bookmarks csv header: %w", err)
	}
	for _, b := range doc.Bookmarks {
		record := []string{
			b.ID,
			b.ActivityID,
			b.Title,
			b.Href,
			b.Source,
			strings.Join(b.Tags, ";"),
			b.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("export bookmark %s: %w", b.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("export bookmarks csv: %w", err)
	}
	return buf.Bytes(), nil
}
