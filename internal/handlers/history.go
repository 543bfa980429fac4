package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

// ListRecentSeries returns the recently viewed series, newest first. An
// optional ?limit= caps the result.
func (h *Handler) ListRecentSeries(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.errorResponse(w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = n
	}

	entries, err := h.history.ListRecent(r.Context(), limit)
	if err != nil {
		h.logger.Errorw("Failed to list recent series", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to list recent series")
		return
	}

	h.jsonResponse(w, http.StatusOK, entries)
}

// SaveRecentSeries records one viewed series in the history.
func (h *Handler) SaveRecentSeries(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var entry models.RecentSeries
	if err := json.NewDecoder(r.Body).Decode(&entry); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(entry); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "series_id, title, team_a and team_b are required")
		return
	}

	if err := h.history.SaveRecent(r.Context(), entry); err != nil {
		h.logger.Errorw("Failed to save recent series", "series_id", entry.SeriesID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to save recent series")
		return
	}

	h.jsonResponse(w, http.StatusCreated, entry)
}

// DeleteRecentSeries removes one series from the history.
func (h *Handler) DeleteRecentSeries(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "seriesID")
	if seriesID == "" {
		h.errorResponse(w, http.StatusBadRequest, "Missing series ID")
		return
	}

	if err := h.history.DeleteRecent(r.Context(), seriesID); err != nil {
		h.logger.Errorw("Failed to delete recent series", "series_id", seriesID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to delete recent series")
		return
	}

	h.jsonResponse(w, http.StatusOK, map[string]string{"status": "deleted", "series_id": seriesID})
}

// ListLiveSeries returns series last seen without a winner.
func (h *Handler) ListLiveSeries(w http.ResponseWriter, r *http.Request) {
	entries, err := h.live.Active(r.Context())
	if err != nil {
		h.logger.Errorw("Failed to list live series", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to list live series")
		return
	}

	h.jsonResponse(w, http.StatusOK, entries)
}
