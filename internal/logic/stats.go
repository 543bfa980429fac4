package logic

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dbisina/TeamIntuitionEngine/internal/cache"
	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

type statsService struct {
	upstream SeriesFetcher
	cache    *cache.SeriesCache
	live     *LiveTracker
	logger   *zap.SugaredLogger
}

func NewStatsService(upstream SeriesFetcher, c *cache.SeriesCache, live *LiveTracker, logger *zap.Logger) StatsService {
	return &statsService{
		upstream: upstream,
		cache:    c,
		live:     live,
		logger:   logger.Sugar(),
	}
}

// GetSeriesStats serves the full derived analysis for one series. A cache
// hit within the TTL is returned as-is; on a miss the upstream snapshot is
// fetched once, bundles are derived, and the result is written through.
func (s *statsService) GetSeriesStats(ctx context.Context, seriesID string) (*models.SeriesStats, error) {
	if entry, ok := s.cache.Get(seriesID); ok && entry.Snapshot != nil && len(entry.Bundles) > 0 {
		return &models.SeriesStats{
			SeriesID: seriesID,
			Snapshot: entry.Snapshot,
			Bundles:  entry.Bundles,
			Cached:   true,
		}, nil
	}

	snap, err := s.upstream.FetchSeries(ctx, seriesID)
	if err != nil {
		return nil, fmt.Errorf("fetching series %s: %w", seriesID, err)
	}

	bundles, err := s.deriveBundles(ctx, snap)
	if err != nil {
		return nil, err
	}

	s.cache.Put(seriesID, cache.Update{Snapshot: snap, Bundles: bundles})

	if s.live != nil {
		if snap.Finished() {
			s.live.Untrack(ctx, seriesID)
		} else {
			s.live.Track(ctx, snap)
		}
	}

	return &models.SeriesStats{
		SeriesID: seriesID,
		Snapshot: snap,
		Bundles:  bundles,
		Cached:   false,
	}, nil
}

// InvalidateSeries drops any cached analysis so the next read re-fetches.
func (s *statsService) InvalidateSeries(seriesID string) {
	s.cache.Invalidate(seriesID)
}

// deriveBundles fans the pure derivation out across both rosters. Bundle
// order is stable: team A, its players, team B, its players.
func (s *statsService) deriveBundles(ctx context.Context, snap *models.MatchSnapshot) ([]models.DerivedMetricBundle, error) {
	var (
		mu       sync.Mutex
		byTeam   = map[string][]models.DerivedMetricBundle{}
		teamKeys = []string{snap.TeamA, snap.TeamB}
	)

	g, _ := errgroup.WithContext(ctx)
	for _, team := range teamKeys {
		team := team
		g.Go(func() error {
			bundles := make([]models.DerivedMetricBundle, 0, 6)
			bundles = append(bundles, TeamBundle(snap, team))
			for _, p := range snap.TeamPlayers(team) {
				bundles = append(bundles, PlayerBundle(p, snap))
			}
			mu.Lock()
			byTeam[team] = bundles
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.DerivedMetricBundle, 0, len(snap.Players)+2)
	for _, team := range teamKeys {
		out = append(out, byTeam[team]...)
	}
	return out, nil
}
