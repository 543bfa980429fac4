package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/dbisina/TeamIntuitionEngine/internal/logic"
)

// MaxBodySize limits the size of request bodies to 1MB
const MaxBodySize = 1048576

type Config struct {
	Postgres *pgxpool.Pool
	Redis    *redis.Client
	Logger   *zap.Logger
	// Services
	Stats    logic.StatsService
	Scenario logic.ScenarioService
	History  logic.HistoryService
	Live     logic.LiveService
}

type Handler struct {
	pg        *pgxpool.Pool
	redis     *redis.Client
	logger    *zap.SugaredLogger
	validator *validator.Validate
	stats     logic.StatsService
	scenario  logic.ScenarioService
	history   logic.HistoryService
	live      logic.LiveService
}

func New(cfg Config) *Handler {
	return &Handler{
		pg:        cfg.Postgres,
		redis:     cfg.Redis,
		logger:    cfg.Logger.Sugar(),
		validator: validator.New(),
		stats:     cfg.Stats,
		scenario:  cfg.Scenario,
		history:   cfg.History,
		live:      cfg.Live,
	}
}
