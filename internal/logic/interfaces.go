package logic

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

// PgPool defines the interface for PostgreSQL connection pool
type PgPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RedisClient defines the interface for Redis client
type RedisClient interface {
	HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
	HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd
}

// SeriesFetcher retrieves one series snapshot from the upstream provider.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, seriesID string) (*models.MatchSnapshot, error)
}

// ScenarioRelay turns a scenario question plus optional match context into a
// structured prediction.
type ScenarioRelay interface {
	Simulate(ctx context.Context, req models.ScenarioRequest, snap *models.MatchSnapshot) (*models.ScenarioResult, error)
}

// StatsService serves derived series analytics.
type StatsService interface {
	GetSeriesStats(ctx context.Context, seriesID string) (*models.SeriesStats, error)
	InvalidateSeries(seriesID string)
}

// ScenarioService answers "what if" questions about a series.
type ScenarioService interface {
	Simulate(ctx context.Context, req models.ScenarioRequest) (*models.ScenarioResult, error)
}

// HistoryService persists the recently viewed series list.
type HistoryService interface {
	SaveRecent(ctx context.Context, entry models.RecentSeries) error
	ListRecent(ctx context.Context, limit int) ([]models.RecentSeries, error)
	DeleteRecent(ctx context.Context, seriesID string) error
}

// LiveService lists series last seen without a winner.
type LiveService interface {
	Active(ctx context.Context) ([]models.LiveSeries, error)
}
