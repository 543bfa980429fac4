package logic

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

const liveSeriesKey = "live_series"

// liveStaleAfter bounds how long a series stays listed without being seen
// again. Upstream polling refreshes SeenAt on every fetch.
const liveStaleAfter = 10 * time.Minute

// LiveTracker mirrors in-progress series into a Redis hash so every API
// instance sees the same live list.
type LiveTracker struct {
	redis  RedisClient
	logger *zap.SugaredLogger
	now    func() time.Time
}

func NewLiveTracker(redis RedisClient, logger *zap.Logger) *LiveTracker {
	return &LiveTracker{redis: redis, logger: logger.Sugar(), now: time.Now}
}

// Track records or refreshes a series in the live hash. Failures are logged
// and swallowed; live tracking never blocks a stats response.
func (t *LiveTracker) Track(ctx context.Context, snap *models.MatchSnapshot) {
	entry := models.LiveSeries{
		SeriesID:   snap.SeriesID,
		MapName:    snap.MapName,
		TeamA:      snap.TeamA,
		TeamB:      snap.TeamB,
		TeamAScore: snap.TeamAScore,
		TeamBScore: snap.TeamBScore,
		SeenAt:     t.now().UTC(),
	}

	payload, err := json.Marshal(entry)
	if err != nil {
		t.logger.Errorw("Failed to encode live series entry", "series_id", snap.SeriesID, "error", err)
		return
	}
	if err := t.redis.HSet(ctx, liveSeriesKey, snap.SeriesID, string(payload)).Err(); err != nil {
		t.logger.Warnw("Failed to track live series", "series_id", snap.SeriesID, "error", err)
	}
}

// Untrack drops a series from the live hash once it has a winner.
func (t *LiveTracker) Untrack(ctx context.Context, seriesID string) {
	if err := t.redis.HDel(ctx, liveSeriesKey, seriesID).Err(); err != nil {
		t.logger.Warnw("Failed to untrack live series", "series_id", seriesID, "error", err)
	}
}

// Active returns live series sorted by id, dropping and reaping entries not
// refreshed within the staleness window.
func (t *LiveTracker) Active(ctx context.Context) ([]models.LiveSeries, error) {
	raw, err := t.redis.HGetAll(ctx, liveSeriesKey).Result()
	if err != nil {
		return nil, err
	}

	cutoff := t.now().Add(-liveStaleAfter)
	var stale []string
	out := make([]models.LiveSeries, 0, len(raw))
	for field, payload := range raw {
		var entry models.LiveSeries
		if err := json.Unmarshal([]byte(payload), &entry); err != nil {
			t.logger.Warnw("Dropping undecodable live series entry", "field", field, "error", err)
			stale = append(stale, field)
			continue
		}
		if entry.SeenAt.Before(cutoff) {
			stale = append(stale, field)
			continue
		}
		out = append(out, entry)
	}

	if len(stale) > 0 {
		if err := t.redis.HDel(ctx, liveSeriesKey, stale...).Err(); err != nil {
			t.logger.Warnw("Failed to reap stale live series", "error", err)
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].SeriesID < out[j].SeriesID })
	return out, nil
}
