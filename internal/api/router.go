package api

import (
	"net/http"
	"strings"

	"log/slog"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/metrics"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/statestore"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/trending"
)

// SetupRoutes configures all API routes
func SetupRoutes(mux *http.ServeMux, snap *Snapshot, scorer *trending.Scorer, store statestore.Store, collector *metrics.HTTPCollector, logger *slog.Logger) {
	handler := NewHandler(snap, scorer, store, logger)

	mux.HandleFunc("/api/feed", handler.GetFeedHandler)
	mux.HandleFunc("/api/threads", handler.GetThreadsHandler)
	mux.HandleFunc("/api/topics", handler.GetTopicsHandler)

	mux.HandleFunc("/api/search", handler.SearchHandler)
	mux.HandleFunc("/api/search/history", handler.SearchHistoryHandler)

	mux.HandleFunc("/api/trending/", handler.GetTrendingHandler)

	mux.HandleFunc("/api/heatmap", handler.GetHeatmapHandler)
	mux.HandleFunc("/api/heatmap.png", handler.GetHeatmapPNGHandler)

	mux.HandleFunc("/api/bookmarks", handler.BookmarksHandler)
	mux.HandleFunc("/api/bookmarks/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/export") {
			handler.ExportBookmarksHandler(w, r)
			return
		}
		handler.DeleteBookmarkHandler(w, r)
	})

	mux.HandleFunc("/api/reactions", handler.ReactionsHandler)

	mux.HandleFunc("/api/presets", handler.PresetsHandler)
	mux.HandleFunc("/api/presets/", handler.DeletePresetHandler)

	mux.HandleFunc("/healthz", handler.HealthHandler)

	if collector != nil {
		mux.Handle("/metrics", collector.Handler())
	}
}
