package logic

import (
	"context"

	"go.uber.org/zap"

	"github.com/dbisina/TeamIntuitionEngine/internal/cache"
	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

type scenarioService struct {
	relay    ScenarioRelay
	upstream SeriesFetcher
	cache    *cache.SeriesCache
	logger   *zap.SugaredLogger
}

func NewScenarioService(relay ScenarioRelay, upstream SeriesFetcher, c *cache.SeriesCache, logger *zap.Logger) ScenarioService {
	return &scenarioService{
		relay:    relay,
		upstream: upstream,
		cache:    c,
		logger:   logger.Sugar(),
	}
}

// Simulate answers one scenario question. Match context is best effort: a
// cached snapshot is used when fresh, an upstream fetch is attempted on a
// miss, and if both fail the relay still runs without context. Relay
// failures are the caller's to surface; nothing is retried here.
func (s *scenarioService) Simulate(ctx context.Context, req models.ScenarioRequest) (*models.ScenarioResult, error) {
	snap := s.matchContext(ctx, req.SeriesID)

	result, err := s.relay.Simulate(ctx, req, snap)
	if err != nil {
		return nil, err
	}

	if req.SeriesID != "" {
		s.cache.Put(req.SeriesID, cache.Update{Scenario: result})
	}
	return result, nil
}

func (s *scenarioService) matchContext(ctx context.Context, seriesID string) *models.MatchSnapshot {
	if seriesID == "" {
		return nil
	}

	if entry, ok := s.cache.Get(seriesID); ok && entry.Snapshot != nil {
		return entry.Snapshot
	}

	snap, err := s.upstream.FetchSeries(ctx, seriesID)
	if err != nil {
		s.logger.Warnw("Proceeding without match context", "series_id", seriesID, "error", err)
		return nil
	}
	s.cache.Put(seriesID, cache.Update{Snapshot: snap})
	return snap
}
