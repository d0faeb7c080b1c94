package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dcyfr/dcyfr-labs-sub003/internal/feed"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/heatmap"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/models"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/search"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/statestore"
	"github.com/dcyfr/dcyfr-labs-sub003/internal/trending"
)

// Handler serves the read-only activity stream API over the current snapshot.
type Handler struct {
	snap   *Snapshot
	scorer *trending.Scorer
	store  statestore.Store
	logger *slog.Logger
}

// NewHandler wires the API handler.
func NewHandler(snap *Snapshot, scorer *trending.Scorer, store statestore.Store, logger *slog.Logger) *Handler {
	return &Handler{snap: snap, scorer: scorer, store: store, logger: logger}
}

// GetFeedHandler handles GET /api/feed
func (h *Handler) GetFeedHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query, err := parseFeedQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	items, err := feed.Aggregate(h.snap.Items(), query)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respondJSON(w, map[string]any{
		"items": items,
		"count": len(items),
	})
}

// GetThreadsHandler handles GET /api/threads
func (h *Handler) GetThreadsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	threads := h.snap.Threads()
	h.respondJSON(w, map[string]any{
		"threads": threads,
		"count":   len(threads),
	})
}

// GetTopicsHandler handles GET /api/topics
func (h *Handler) GetTopicsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	topicList := h.snap.Topics()
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			http.Error(w, "limit must be a non-negative integer", http.StatusBadRequest)
			return
		}
		if limit < len(topicList) {
			topicList = topicList[:limit]
		}
	}

	h.respondJSON(w, map[string]any{
		"topics": topicList,
		"count":  len(topicList),
	})
}

// SearchHandler handles GET /api/search
func (h *Handler) SearchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query().Get("q")
	results, err := h.snap.Search(query)
	if err != nil {
		if errors.Is(err, search.ErrUnterminatedQuote) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		h.logger.Error("search failed", "query", query, "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Empty queries are not recorded, matching the engine's history rule.
	if trimmed := strings.TrimSpace(query); trimmed != "" {
		ctx := r.Context()
		doc := statestore.LoadSearchHistory(ctx, h.store, h.logger)
		doc = statestore.RecordSearch(doc, trimmed, len(results), time.Now())
		if err := h.store.Save(ctx, statestore.KeySearchHistory, doc); err != nil {
			h.logger.Error("failed to save search history", "error", err)
		}
	}

	h.respondJSON(w, map[string]any{
		"query":   query,
		"results": results,
		"count":   len(results),
	})
}

// SearchHistoryHandler handles GET /api/search/history
func (h *Handler) SearchHistoryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	h.respondJSON(w, map[string]any{
		"history": h.snap.SearchHistory(),
	})
}

// GetTrendingHandler handles GET /api/trending/{id}
func (h *Handler) GetTrendingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/trending/")
	if id == "" {
		http.Error(w, "Activity ID required", http.StatusBadRequest)
		return
	}

	item, ok := h.snap.Item(id)
	if !ok {
		http.Error(w, "Activity not found", http.StatusNotFound)
		return
	}

	var stats models.EngagementStats
	if item.Meta != nil && item.Meta.Engagement != nil {
		stats = *item.Meta.Engagement
	}

	weekly := models.EngagementMetrics{
		Views: stats.Views, Likes: stats.Likes, Comments: stats.Comments, PeriodDays: 7,
	}
	monthly := models.EngagementMetrics{
		Views: stats.Views, Likes: stats.Likes, Comments: stats.Comments, PeriodDays: 30,
	}

	h.respondJSON(w, h.scorer.Evaluate(weekly, monthly))
}

// GetHeatmapHandler handles GET /api/heatmap
func (h *Handler) GetHeatmapHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.buildHeatmap(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.respondJSON(w, stats)
}

// GetHeatmapPNGHandler handles GET /api/heatmap.png
func (h *Handler) GetHeatmapPNGHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	stats, err := h.buildHeatmap(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := heatmap.RenderPNG(stats, w); err != nil {
		h.logger.Error("failed to render heatmap png", "error", err)
	}
}

// BookmarksHandler handles GET and POST /api/bookmarks
func (h *Handler) BookmarksHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		doc := statestore.LoadBookmarks(r.Context(), h.store, h.logger)
		h.respondJSON(w, doc)
	case http.MethodPost:
		h.addBookmark(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) addBookmark(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActivityID string `json:"activityId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ActivityID == "" {
		http.Error(w, "activityId required", http.StatusBadRequest)
		return
	}

	item, ok := h.snap.Item(req.ActivityID)
	if !ok {
		http.Error(w, "Activity not found", http.StatusNotFound)
		return
	}

	ctx := r.Context()
	doc := statestore.LoadBookmarks(ctx, h.store, h.logger)
	doc = statestore.AddBookmark(doc, item, time.Now())
	if err := h.store.Save(ctx, statestore.KeyBookmarks, doc); err != nil {
		h.logger.Error("failed to save bookmarks", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, doc)
}

// DeleteBookmarkHandler handles DELETE /api/bookmarks/{activityId}
func (h *Handler) DeleteBookmarkHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/bookmarks/")
	if id == "" {
		http.Error(w, "Activity ID required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	doc := statestore.LoadBookmarks(ctx, h.store, h.logger)
	doc = statestore.RemoveBookmark(doc, id, time.Now())
	if err := h.store.Save(ctx, statestore.KeyBookmarks, doc); err != nil {
		h.logger.Error("failed to save bookmarks", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, doc)
}

// ReactionsHandler handles GET and POST /api/reactions
func (h *Handler) ReactionsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		doc := statestore.LoadReactions(r.Context(), h.store, h.logger)
		h.respondJSON(w, doc)
	case http.MethodPost:
		h.addReaction(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) addReaction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ActivityID string `json:"activityId"`
		Reaction   string `json:"reaction"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ActivityID == "" || req.Reaction == "" {
		http.Error(w, "activityId and reaction required", http.StatusBadRequest)
		return
	}

	if _, ok := h.snap.Item(req.ActivityID); !ok {
		http.Error(w, "Activity not found", http.StatusNotFound)
		return
	}

	ctx := r.Context()
	doc := statestore.LoadReactions(ctx, h.store, h.logger)
	doc = statestore.AddReaction(doc, req.ActivityID, req.Reaction, time.Now())
	if err := h.store.Save(ctx, statestore.KeyReactions, doc); err != nil {
		h.logger.Error("failed to save reactions", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, doc)
}

// PresetsHandler handles GET and POST /api/presets
func (h *Handler) PresetsHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		doc := statestore.LoadFilterPresets(r.Context(), h.store, h.logger)
		h.respondJSON(w, doc)
	case http.MethodPost:
		h.savePreset(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) savePreset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string   `json:"name"`
		Sources []string `json:"sources"`
		Topics  []string `json:"topics"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "name required", http.StatusBadRequest)
		return
	}
	for _, raw := range req.Sources {
		if _, err := models.ParseSource(raw); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}

	ctx := r.Context()
	doc := statestore.LoadFilterPresets(ctx, h.store, h.logger)
	doc = statestore.SavePreset(doc, req.Name, req.Sources, req.Topics, time.Now())
	if err := h.store.Save(ctx, statestore.KeyFilterPresets, doc); err != nil {
		h.logger.Error("failed to save presets", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, doc)
}

// DeletePresetHandler handles DELETE /api/presets/{id}
func (h *Handler) DeletePresetHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/presets/")
	if id == "" {
		http.Error(w, "Preset ID required", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	doc := statestore.LoadFilterPresets(ctx, h.store, h.logger)
	doc = statestore.DeletePreset(doc, id, time.Now())
	if err := h.store.Save(ctx, statestore.KeyFilterPresets, doc); err != nil {
		h.logger.Error("failed to save presets", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.respondJSON(w, doc)
}

// ExportBookmarksHandler handles GET /api/bookmarks/export?format=json|csv
func (h *Handler) ExportBookmarksHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	doc := statestore.LoadBookmarks(r.Context(), h.store, h.logger)

	switch r.URL.Query().Get("format") {
	case "", "json":
		out, err := statestore.ExportBookmarksJSON(doc)
		if err != nil {
			h.logger.Error("failed to export bookmarks", "format", "json", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(out)
	case "csv":
		out, err := statestore.ExportBookmarksCSV(doc)
		if err != nil {
			h.logger.Error("failed to export bookmarks", "format", "csv", "error", err)
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="bookmarks.csv"`)
		w.Write(out)
	default:
		http.Error(w, "format must be json or csv", http.StatusBadRequest)
	}
}

// HealthHandler handles GET /healthz
func (h *Handler) HealthHandler(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, map[string]any{
		"status":   "ok",
		"items":    len(h.snap.Items()),
		"built_at": h.snap.BuiltAt().Format(time.RFC3339),
	})
}

func (h *Handler) respondJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) buildHeatmap(r *http.Request) (models.ActivityHeatmapStats, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -90)

	var err error
	if raw := r.URL.Query().Get("start"); raw != "" {
		if start, err = parseDateParam(raw); err != nil {
			return models.ActivityHeatmapStats{}, err
		}
	}
	if raw := r.URL.Query().Get("end"); raw != "" {
		if end, err = parseDateParam(raw); err != nil {
			return models.ActivityHeatmapStats{}, err
		}
	}

	return heatmap.Build(h.snap.Items(), start, end)
}
