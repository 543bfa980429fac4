package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dbisina/TeamIntuitionEngine/internal/cache"
	"github.com/dbisina/TeamIntuitionEngine/internal/config"
	"github.com/dbisina/TeamIntuitionEngine/internal/grid"
	"github.com/dbisina/TeamIntuitionEngine/internal/handlers"
	"github.com/dbisina/TeamIntuitionEngine/internal/logic"
	"github.com/dbisina/TeamIntuitionEngine/internal/relay"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	var logger *zap.Logger
	if cfg.Env == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	sugar := logger.Sugar()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.PostgresURL)
	if err != nil {
		sugar.Fatalw("Failed to create Postgres pool", "error", err)
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		sugar.Fatalw("Invalid Redis URL", "error", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	seriesCache := cache.New(cfg.CacheTTL)
	upstream := grid.New(cfg.GridAPIURL, cfg.GridAPIKey, cfg.UpstreamTimeout)
	relayClient := relay.NewClient(cfg.DeepSeekBaseURL, cfg.DeepSeekAPIKey, cfg.DeepSeekModel, cfg.RelayTimeout)
	scenarioRelay := relay.New(relayClient)

	liveTracker := logic.NewLiveTracker(redisClient, logger)

	h := handlers.New(handlers.Config{
		Postgres: pool,
		Redis:    redisClient,
		Logger:   logger,
		Stats:    logic.NewStatsService(upstream, seriesCache, liveTracker, logger),
		Scenario: logic.NewScenarioService(scenarioRelay, upstream, seriesCache, logger),
		History:  logic.NewHistoryService(pool),
		Live:     liveTracker,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h.Router(cfg.AllowedOrigins),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sugar.Infow("Starting API server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			sugar.Fatalw("Server failed", "error", err)
		}
	}()

	<-ctx.Done()
	sugar.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		sugar.Errorw("Graceful shutdown failed", "error", err)
	}
}
