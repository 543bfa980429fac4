package logic

import (
	"context"
	"fmt"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

const defaultHistoryLimit = 20

type historyService struct {
	pg PgPool
}

func NewHistoryService(pg PgPool) HistoryService {
	return &historyService{pg: pg}
}

// SaveRecent upserts one viewed series. Re-viewing a series bumps it back to
// the top of the list instead of duplicating the row.
func (s *historyService) SaveRecent(ctx context.Context, entry models.RecentSeries) error {
	_, err := s.pg.Exec(ctx, `
		INSERT INTO recent_series (series_id, title, team_a, team_b, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (series_id)
		DO UPDATE SET title = EXCLUDED.title, team_a = EXCLUDED.team_a,
		              team_b = EXCLUDED.team_b, created_at = NOW()
	`, entry.SeriesID, entry.Title, entry.TeamA, entry.TeamB)
	if err != nil {
		return fmt.Errorf("failed to save recent series: %w", err)
	}
	return nil
}

// ListRecent returns the most recently viewed series, newest first.
func (s *historyService) ListRecent(ctx context.Context, limit int) ([]models.RecentSeries, error) {
	if limit <= 0 || limit > 100 {
		limit = defaultHistoryLimit
	}

	rows, err := s.pg.Query(ctx, `
		SELECT series_id, title, team_a, team_b, created_at
		FROM recent_series
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent series: %w", err)
	}
	defer rows.Close()

	out := make([]models.RecentSeries, 0, limit)
	for rows.Next() {
		var entry models.RecentSeries
		if err := rows.Scan(&entry.SeriesID, &entry.Title, &entry.TeamA, &entry.TeamB, &entry.CreatedAt); err != nil {
			continue
		}
		out = append(out, entry)
	}
	return out, rows.Err()
}

// DeleteRecent removes one series from the history. Deleting an absent row
// is not an error.
func (s *historyService) DeleteRecent(ctx context.Context, seriesID string) error {
	_, err := s.pg.Exec(ctx, `DELETE FROM recent_series WHERE series_id = $1`, seriesID)
	if err != nil {
		return fmt.Errorf("failed to delete recent series: %w", err)
	}
	return nil
}
