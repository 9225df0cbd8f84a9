package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"CREDO_PORT", "DATABASE_URL", "NATS_URL", "NATS_TOKEN", "REDIS_ADDR",
		"SCORING_URL", "SCORING_TIMEOUT", "LEADERBOARD_TTL", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != 8650 {
		t.Errorf("expected default port 8650, got %d", cfg.Port)
	}
	if cfg.ScoringURL != "http://localhost:5000" {
		t.Errorf("expected default scoring url, got %s", cfg.ScoringURL)
	}
	if cfg.ScoringTimeout != 10*time.Second {
		t.Errorf("expected default scoring timeout 10s, got %s", cfg.ScoringTimeout)
	}
	if cfg.LeaderboardTTL != 30*time.Second {
		t.Errorf("expected default leaderboard ttl 30s, got %s", cfg.LeaderboardTTL)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected default log level info, got %s", cfg.LogLevel)
	}
	if cfg.NatsURL != "" {
		t.Errorf("expected empty default nats url, got %s", cfg.NatsURL)
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("CREDO_PORT", "9000")
	t.Setenv("SCORING_TIMEOUT", "3s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Port)
	}
	if cfg.ScoringTimeout != 3*time.Second {
		t.Errorf("expected scoring timeout 3s, got %s", cfg.ScoringTimeout)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.LogLevel)
	}
}

func TestLoad_BadIntFallsBack(t *testing.T) {
	t.Setenv("CREDO_PORT", "not-a-port")

	cfg := Load()
	if cfg.Port != 8650 {
		t.Errorf("expected fallback port 8650, got %d", cfg.Port)
	}
}
