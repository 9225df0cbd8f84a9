package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           int
	DatabaseURL    string
	NatsURL        string
	NatsToken      string
	RedisAddr      string
	ScoringURL     string
	ScoringTimeout time.Duration
	LeaderboardTTL time.Duration
	LogLevel       string
}

func Load() Config {
	// Optional .env for local development; real deployments set the
	// environment directly.
	_ = godotenv.Load()

	return Config{
		Port:           envInt("CREDO_PORT", 8650),
		DatabaseURL:    envStr("DATABASE_URL", ""),
		NatsURL:        envStr("NATS_URL", ""),
		NatsToken:      envStr("NATS_TOKEN", ""),
		RedisAddr:      envStr("REDIS_ADDR", ""),
		ScoringURL:     envStr("SCORING_URL", "http://localhost:5000"),
		ScoringTimeout: envDuration("SCORING_TIMEOUT", 10*time.Second),
		LeaderboardTTL: envDuration("LEADERBOARD_TTL", 30*time.Second),
		LogLevel:       envStr("LOG_LEVEL", "info"),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
