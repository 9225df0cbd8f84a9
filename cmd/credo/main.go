package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/loopwork/credo/internal/aggregator"
	"github.com/loopwork/credo/internal/api"
	"github.com/loopwork/credo/internal/cadence"
	"github.com/loopwork/credo/internal/config"
	"github.com/loopwork/credo/internal/events"
	"github.com/loopwork/credo/internal/leaderboard"
	"github.com/loopwork/credo/internal/locks"
	"github.com/loopwork/credo/internal/registration"
	"github.com/loopwork/credo/internal/scoring"
	"github.com/loopwork/credo/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogLevel)

	slog.Info("credo starting", "port", cfg.Port)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	if cfg.DatabaseURL == "" {
		slog.Error("DATABASE_URL is required")
		os.Exit(1)
	}
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("database connected")

	// Scoring model client
	scorer := scoring.NewClient(cfg.ScoringURL, cfg.ScoringTimeout)
	slog.Info("scoring model client ready", "url", cfg.ScoringURL, "timeout", cfg.ScoringTimeout)

	// NATS (optional — credo works without a broker, just no events)
	var bus *events.Client
	if cfg.NatsURL != "" {
		bus, err = events.NewClient(cfg.NatsURL, cfg.NatsToken, slog.Default())
		if err != nil {
			slog.Error("failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer bus.Close()
		slog.Info("NATS connected", "url", cfg.NatsURL)
	} else {
		slog.Warn("NATS not configured — running without event publishing")
	}

	// Redis (optional — leaderboard reads go straight to Postgres without it)
	var cache *redis.Client
	if cfg.RedisAddr != "" {
		cache = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := cache.Ping(ctx).Err(); err != nil {
			slog.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer cache.Close()
		slog.Info("redis connected", "addr", cfg.RedisAddr)
	} else {
		slog.Warn("redis not configured — leaderboard served uncached")
	}

	// One keyed lock for everything that mutates per-account score state:
	// a login flag and a refresh on the same account must serialize.
	reqLocks := locks.NewKeyed()

	registrar := registration.New(db, db, bus, slog.Default())
	guard := cadence.New(db, bus, reqLocks, slog.Default())
	agg := aggregator.New(db, scorer, bus, reqLocks, slog.Default())
	ranker := leaderboard.New(db, cache, cfg.LeaderboardTTL, slog.Default())

	srv := api.NewServer(cfg.Port, registrar, guard, agg, ranker, db)
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("HTTP server error", "error", err)
		}
	}()

	slog.Info("credo ready", "port", cfg.Port)

	// Graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	slog.Info("shutting down")
	cancel()
	slog.Info("credo stopped")
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
}
