package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
	"github.com/dbisina/TeamIntuitionEngine/internal/relay"
)

// Simulate answers a "what if" scenario question through the LLM relay.
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)

	var req models.ScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		h.errorResponse(w, http.StatusBadRequest, "Scenario question is required")
		return
	}

	result, err := h.scenario.Simulate(r.Context(), req)
	if err != nil {
		var unavailErr *relay.RelayUnavailableError
		if errors.As(err, &unavailErr) {
			h.logger.Errorw("Simulation provider unavailable", "error", err)
			h.errorResponse(w, http.StatusServiceUnavailable, "Simulation API not available")
			return
		}
		var parseErr *relay.RelayParseError
		if errors.As(err, &parseErr) {
			h.logger.Errorw("Simulation reply unusable", "reason", parseErr.Reason, "raw", parseErr.Raw)
			h.errorResponse(w, http.StatusBadGateway, "Simulation API returned an unusable reply")
			return
		}
		h.logger.Errorw("Failed to simulate scenario", "error", err)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to simulate scenario")
		return
	}

	h.jsonResponse(w, http.StatusOK, result)
}
