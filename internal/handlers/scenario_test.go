package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
	"github.com/dbisina/TeamIntuitionEngine/internal/relay"
)

func TestSimulate(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*MockScenarioService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "Happy Path",
			body: `{"scenario": "What if we force buy round 13?", "series_id": "s1"}`,
			mockSetup: func(m *MockScenarioService) {
				m.SimulateFunc = func(ctx context.Context, req models.ScenarioRequest) (*models.ScenarioResult, error) {
					return &models.ScenarioResult{
						ID:                 "r1",
						ActionTaken:        "Force buy",
						SuccessProbability: 0.34,
						Recommendation:     "Save instead",
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"action_taken":"Force buy"`,
		},
		{
			name:           "Invalid JSON",
			body:           `{not json`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Invalid request body",
		},
		{
			name:           "Missing Scenario",
			body:           `{"series_id": "s1"}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   "Scenario question is required",
		},
		{
			name:           "Scenario Too Short",
			body:           `{"scenario": "ab"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "Relay Down",
			body: `{"scenario": "What if we save?"}`,
			mockSetup: func(m *MockScenarioService) {
				m.SimulateFunc = func(ctx context.Context, req models.ScenarioRequest) (*models.ScenarioResult, error) {
					return nil, &relay.RelayUnavailableError{Status: 503}
				}
			},
			expectedStatus: http.StatusServiceUnavailable,
			expectedBody:   "Simulation API not available",
		},
		{
			name: "Unusable Reply",
			body: `{"scenario": "What if we save?"}`,
			mockSetup: func(m *MockScenarioService) {
				m.SimulateFunc = func(ctx context.Context, req models.ScenarioRequest) (*models.ScenarioResult, error) {
					return nil, &relay.RelayParseError{Reason: "missing required fields"}
				}
			},
			expectedStatus: http.StatusBadGateway,
			expectedBody:   "unusable reply",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockScenario := &MockScenarioService{}
			if tt.mockSetup != nil {
				tt.mockSetup(mockScenario)
			}
			h := newTestHandler()
			h.scenario = mockScenario

			r := httptest.NewRequest("POST", "/api/v1/simulate", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			h.Simulate(w, r)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedBody != "" && !strings.Contains(w.Body.String(), tt.expectedBody) {
				t.Errorf("expected body to contain %q, got %q", tt.expectedBody, w.Body.String())
			}
		})
	}
}
