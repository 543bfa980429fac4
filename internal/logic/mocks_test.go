package logic

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

type MockFetcher struct {
	FetchFunc  func(ctx context.Context, seriesID string) (*models.MatchSnapshot, error)
	FetchCalls int
}

func (m *MockFetcher) FetchSeries(ctx context.Context, seriesID string) (*models.MatchSnapshot, error) {
	m.FetchCalls++
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, seriesID)
	}
	return nil, nil
}

type MockRelay struct {
	SimulateFunc func(ctx context.Context, req models.ScenarioRequest, snap *models.MatchSnapshot) (*models.ScenarioResult, error)
	LastSnap     *models.MatchSnapshot
}

func (m *MockRelay) Simulate(ctx context.Context, req models.ScenarioRequest, snap *models.MatchSnapshot) (*models.ScenarioResult, error) {
	m.LastSnap = snap
	if m.SimulateFunc != nil {
		return m.SimulateFunc(ctx, req, snap)
	}
	return &models.ScenarioResult{ID: "mock-result"}, nil
}

// MockRedis implements RedisClient over a plain map.
type MockRedis struct {
	Hashes  map[string]map[string]string
	FailAll bool
}

func NewMockRedis() *MockRedis {
	return &MockRedis{Hashes: map[string]map[string]string{}}
}

func (m *MockRedis) HSet(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	if m.FailAll {
		return redis.NewIntResult(0, context.DeadlineExceeded)
	}
	if m.Hashes[key] == nil {
		m.Hashes[key] = map[string]string{}
	}
	for i := 0; i+1 < len(values); i += 2 {
		m.Hashes[key][values[i].(string)] = values[i+1].(string)
	}
	return redis.NewIntResult(1, nil)
}

func (m *MockRedis) HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd {
	if m.FailAll {
		return redis.NewMapStringStringResult(nil, context.DeadlineExceeded)
	}
	return redis.NewMapStringStringResult(m.Hashes[key], nil)
}

func (m *MockRedis) HDel(ctx context.Context, key string, fields ...string) *redis.IntCmd {
	if m.FailAll {
		return redis.NewIntResult(0, context.DeadlineExceeded)
	}
	for _, f := range fields {
		delete(m.Hashes[key], f)
	}
	return redis.NewIntResult(int64(len(fields)), nil)
}

func (m *MockRedis) putLive(entry models.LiveSeries) {
	payload, _ := json.Marshal(entry)
	if m.Hashes[liveSeriesKey] == nil {
		m.Hashes[liveSeriesKey] = map[string]string{}
	}
	m.Hashes[liveSeriesKey][entry.SeriesID] = string(payload)
}

type MockPgPool struct {
	QueryFunc func(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	ExecFunc  func(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)

	ExecCalls []string
}

func (m *MockPgPool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if m.QueryFunc != nil {
		return m.QueryFunc(ctx, sql, args...)
	}
	return nil, nil
}

func (m *MockPgPool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row { return nil }

func (m *MockPgPool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.ExecCalls = append(m.ExecCalls, sql)
	if m.ExecFunc != nil {
		return m.ExecFunc(ctx, sql, args...)
	}
	return pgconn.CommandTag{}, nil
}

// MockRecentRows serves canned history rows through the pgx.Rows interface.
type MockRecentRows struct {
	Rows []models.RecentSeries
	curr int
}

func (r *MockRecentRows) Close()                                       {}
func (r *MockRecentRows) Err() error                                   { return nil }
func (r *MockRecentRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *MockRecentRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *MockRecentRows) Next() bool {
	r.curr++
	return r.curr <= len(r.Rows)
}
func (r *MockRecentRows) Scan(dest ...any) error {
	row := r.Rows[r.curr-1]
	*(dest[0].(*string)) = row.SeriesID
	*(dest[1].(*string)) = row.Title
	*(dest[2].(*string)) = row.TeamA
	*(dest[3].(*string)) = row.TeamB
	*(dest[4].(*time.Time)) = row.CreatedAt
	return nil
}
func (r *MockRecentRows) Values() ([]any, error) { return nil, nil }
func (r *MockRecentRows) RawValues() [][]byte    { return nil }
func (r *MockRecentRows) Conn() *pgx.Conn        { return nil }
