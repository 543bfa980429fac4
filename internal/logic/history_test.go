package logic

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dbisina/TeamIntuitionEngine/internal/models"
)

func TestSaveRecentUpserts(t *testing.T) {
	pg := &MockPgPool{}
	svc := NewHistoryService(pg)

	err := svc.SaveRecent(context.Background(), models.RecentSeries{
		SeriesID: "s1",
		Title:    "Cloud9 vs Sentinels",
		TeamA:    "Cloud9",
		TeamB:    "Sentinels",
	})
	if err != nil {
		t.Fatalf("SaveRecent: %v", err)
	}

	if len(pg.ExecCalls) != 1 {
		t.Fatalf("ExecCalls = %d, want 1", len(pg.ExecCalls))
	}
	if !strings.Contains(pg.ExecCalls[0], "ON CONFLICT (series_id)") {
		t.Error("save is not an upsert")
	}
}

func TestSaveRecentWrapsDBError(t *testing.T) {
	pg := &MockPgPool{
		ExecFunc: func(context.Context, string, ...any) (pgconn.CommandTag, error) {
			return pgconn.CommandTag{}, errors.New("connection refused")
		},
	}
	svc := NewHistoryService(pg)

	err := svc.SaveRecent(context.Background(), models.RecentSeries{SeriesID: "s1"})
	if err == nil || !strings.Contains(err.Error(), "failed to save recent series") {
		t.Errorf("err = %v", err)
	}
}

func TestListRecent(t *testing.T) {
	rows := []models.RecentSeries{
		{SeriesID: "s2", Title: "FNC vs NAVI", TeamA: "FNC", TeamB: "NAVI", CreatedAt: time.Now()},
		{SeriesID: "s1", Title: "C9 vs SEN", TeamA: "Cloud9", TeamB: "Sentinels", CreatedAt: time.Now().Add(-time.Hour)},
	}
	var gotLimit any
	pg := &MockPgPool{
		QueryFunc: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
			gotLimit = args[0]
			return &MockRecentRows{Rows: rows}, nil
		},
	}
	svc := NewHistoryService(pg)

	out, err := svc.ListRecent(context.Background(), 10)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(out) != 2 || out[0].SeriesID != "s2" {
		t.Errorf("out = %+v", out)
	}
	if gotLimit != 10 {
		t.Errorf("limit arg = %v", gotLimit)
	}
}

func TestListRecentClampsLimit(t *testing.T) {
	var gotLimit any
	pg := &MockPgPool{
		QueryFunc: func(_ context.Context, _ string, args ...any) (pgx.Rows, error) {
			gotLimit = args[0]
			return &MockRecentRows{}, nil
		},
	}
	svc := NewHistoryService(pg)

	for _, bad := range []int{0, -5, 5000} {
		if _, err := svc.ListRecent(context.Background(), bad); err != nil {
			t.Fatalf("ListRecent(%d): %v", bad, err)
		}
		if gotLimit != defaultHistoryLimit {
			t.Errorf("limit %d not clamped, query got %v", bad, gotLimit)
		}
	}
}

func TestDeleteRecent(t *testing.T) {
	pg := &MockPgPool{}
	svc := NewHistoryService(pg)

	if err := svc.DeleteRecent(context.Background(), "s1"); err != nil {
		t.Fatalf("DeleteRecent: %v", err)
	}
	if len(pg.ExecCalls) != 1 || !strings.Contains(pg.ExecCalls[0], "DELETE FROM recent_series") {
		t.Errorf("ExecCalls = %v", pg.ExecCalls)
	}
}
