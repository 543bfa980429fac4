package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dbisina/TeamIntuitionEngine/internal/grid"
	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

// GetSeriesStats returns the derived analysis for one series. An optional
// ?team= query narrows the bundles to one team and its players.
func (h *Handler) GetSeriesStats(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "seriesID")
	if seriesID == "" {
		h.errorResponse(w, http.StatusBadRequest, "Missing series ID")
		return
	}

	stats, err := h.stats.GetSeriesStats(r.Context(), seriesID)
	if err != nil {
		var upstreamErr *grid.UpstreamUnavailableError
		if errors.As(err, &upstreamErr) {
			h.logger.Errorw("Upstream provider unavailable", "series_id", seriesID, "error", err)
			h.errorResponse(w, http.StatusServiceUnavailable, "Match data provider not available")
			return
		}
		h.logger.Errorw("Failed to get series stats", "series_id", seriesID, "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to derive series stats")
		return
	}

	if team := r.URL.Query().Get("team"); team != "" {
		stats.Bundles = filterByTeam(stats.Bundles, team)
	}

	h.jsonResponse(w, http.StatusOK, stats)
}

// InvalidateSeriesCache drops the cached analysis so the next read hits the
// provider again.
func (h *Handler) InvalidateSeriesCache(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "seriesID")
	if seriesID == "" {
		h.errorResponse(w, http.StatusBadRequest, "Missing series ID")
		return
	}

	h.stats.InvalidateSeries(seriesID)
	h.jsonResponse(w, http.StatusOK, map[string]string{"status": "invalidated", "series_id": seriesID})
}

func filterByTeam(bundles []models.DerivedMetricBundle, team string) []models.DerivedMetricBundle {
	out := make([]models.DerivedMetricBundle, 0, len(bundles))
	for _, b := range bundles {
		if b.Team == team {
			out = append(out, b)
		}
	}
	return out
}
