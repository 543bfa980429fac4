package handlers

import (
	"context"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

// MockStatsService
type MockStatsService struct {
	GetSeriesStatsFunc func(ctx context.Context, seriesID string) (*models.SeriesStats, error)
	InvalidatedIDs     []string
}

func (m *MockStatsService) GetSeriesStats(ctx context.Context, seriesID string) (*models.SeriesStats, error) {
	if m.GetSeriesStatsFunc != nil {
		return m.GetSeriesStatsFunc(ctx, seriesID)
	}
	return &models.SeriesStats{SeriesID: seriesID}, nil
}

func (m *MockStatsService) InvalidateSeries(seriesID string) {
	m.InvalidatedIDs = append(m.InvalidatedIDs, seriesID)
}

// MockScenarioService
type MockScenarioService struct {
	SimulateFunc func(ctx context.Context, req models.ScenarioRequest) (*models.ScenarioResult, error)
}

func (m *MockScenarioService) Simulate(ctx context.Context, req models.ScenarioRequest) (*models.ScenarioResult, error) {
	if m.SimulateFunc != nil {
		return m.SimulateFunc(ctx, req)
	}
	return &models.ScenarioResult{ID: "mock"}, nil
}

// MockHistoryService
type MockHistoryService struct {
	SaveRecentFunc   func(ctx context.Context, entry models.RecentSeries) error
	ListRecentFunc   func(ctx context.Context, limit int) ([]models.RecentSeries, error)
	DeleteRecentFunc func(ctx context.Context, seriesID string) error
}

func (m *MockHistoryService) SaveRecent(ctx context.Context, entry models.RecentSeries) error {
	if m.SaveRecentFunc != nil {
		return m.SaveRecentFunc(ctx, entry)
	}
	return nil
}

func (m *MockHistoryService) ListRecent(ctx context.Context, limit int) ([]models.RecentSeries, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return nil, nil
}

func (m *MockHistoryService) DeleteRecent(ctx context.Context, seriesID string) error {
	if m.DeleteRecentFunc != nil {
		return m.DeleteRecentFunc(ctx, seriesID)
	}
	return nil
}

// MockLiveService
type MockLiveService struct {
	ActiveFunc func(ctx context.Context) ([]models.LiveSeries, error)
}

func (m *MockLiveService) Active(ctx context.Context) ([]models.LiveSeries, error) {
	if m.ActiveFunc != nil {
		return m.ActiveFunc(ctx)
	}
	return nil, nil
}
