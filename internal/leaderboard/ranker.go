// Package leaderboard serves ranked views over persisted level scores. It
// computes nothing itself: ranking reflects whatever the last aggregation
// cycle wrote, with an optional short-lived Redis cache in front since
// leaderboard reads dominate and the underlying order changes slowly.
package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/loopwork/credo/internal/domain"
)

// DefaultPageSize applies when the caller passes a non-positive limit.
const DefaultPageSize = 10

// Source reads the persisted ranking.
type Source interface {
	TopAccounts(ctx context.Context, role domain.Role, limit int) ([]domain.LeaderboardEntry, error)
}

type Ranker struct {
	source Source
	cache  *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// New builds a ranker. cache may be nil; the ranker then reads straight
// from the source on every call.
func New(source Source, cache *redis.Client, ttl time.Duration, logger *slog.Logger) *Ranker {
	return &Ranker{source: source, cache: cache, ttl: ttl, logger: logger}
}

// Rank returns up to limit entries ordered by level score descending, ties
// in insertion order. role filters to a single role when set; empty means
// all roles.
func (r *Ranker) Rank(ctx context.Context, role domain.Role, limit int) ([]domain.LeaderboardEntry, error) {
	if role != "" && !domain.ValidRole(role) {
		return nil, domain.Validationf("unknown role %q", role)
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}

	key := fmt.Sprintf("credo:leaderboard:%s:%d", role, limit)
	if entries, ok := r.cached(ctx, key); ok {
		return entries, nil
	}

	entries, err := r.source.TopAccounts(ctx, role, limit)
	if err != nil {
		return nil, err
	}

	r.store(ctx, key, entries)
	return entries, nil
}

func (r *Ranker) cached(ctx context.Context, key string) ([]domain.LeaderboardEntry, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, err := r.cache.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("leaderboard cache read failed", "error", err)
		}
		return nil, false
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		r.logger.Warn("leaderboard cache entry corrupt", "error", err)
		return nil, false
	}
	return entries, true
}

func (r *Ranker) store(ctx context.Context, key string, entries []domain.LeaderboardEntry) {
	if r.cache == nil {
		return
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := r.cache.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("leaderboard cache write failed", "error", err)
	}
}
