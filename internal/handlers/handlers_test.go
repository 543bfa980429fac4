package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

func TestHealth(t *testing.T) {
	h := newTestHandler()

	r := httptest.NewRequest("GET", "/healthz", nil)
	w := httptest.NewRecorder()
	h.Health(w, r)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRouterRoutes(t *testing.T) {
	h := newTestHandler()
	h.stats = &MockStatsService{
		GetSeriesStatsFunc: func(ctx context.Context, seriesID string) (*models.SeriesStats, error) {
			return seriesStatsFixture(seriesID), nil
		},
	}
	h.scenario = &MockScenarioService{}
	h.history = &MockHistoryService{}
	h.live = &MockLiveService{}

	srv := httptest.NewServer(h.Router([]string{"*"}))
	defer srv.Close()

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{"GET", "/healthz", "", http.StatusOK},
		{"GET", "/metrics", "", http.StatusOK},
		{"GET", "/api/v1/series/s1/stats", "", http.StatusOK},
		{"DELETE", "/api/v1/series/s1/cache", "", http.StatusOK},
		{"POST", "/api/v1/simulate", `{"scenario": "What if we save?"}`, http.StatusOK},
		{"GET", "/api/v1/series/recent", "", http.StatusOK},
		{"GET", "/api/v1/series/live", "", http.StatusOK},
		{"GET", "/api/v1/nope", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			var body *strings.Reader
			if tt.body != "" {
				body = strings.NewReader(tt.body)
			} else {
				body = strings.NewReader("")
			}
			req, err := http.NewRequest(tt.method, srv.URL+tt.path, body)
			if err != nil {
				t.Fatal(err)
			}
			resp, err := srv.Client().Do(req)
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()

			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
		})
	}
}
