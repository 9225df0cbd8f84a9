// Package cadence maintains the per-account login time-of-day history and
// flags mechanically repeated logins as bot-like. Detection is a normal
// result carrying a rejection classification, never an error: the guard
// escalates the spam-risk score instead of hard-blocking.
package cadence

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/loopwork/credo/internal/domain"
	"github.com/loopwork/credo/internal/events"
	"github.com/loopwork/credo/internal/locks"
	"github.com/loopwork/credo/internal/reputation"
)

// LoginStore is the persistence surface the guard needs.
type LoginStore interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	AppendLogin(ctx context.Context, accountID uuid.UUID, clockTime string) error
	LoginTimes(ctx context.Context, accountID uuid.UUID) ([]string, error)
	UpdateSpamScore(ctx context.Context, id uuid.UUID, spam float64) error
}

// Publisher emits lifecycle events. May be nil-safe.
type Publisher interface {
	Publish(subject string, data any) error
}

// Result classifies one login cycle.
type Result struct {
	Accepted  bool    `json:"accepted"`
	Status    string  `json:"status"`
	ClockTime string  `json:"clock_time"`
	RunLength int     `json:"run_length"`
	SpamScore float64 `json:"spam_score"`
}

type Guard struct {
	store  LoginStore
	bus    Publisher
	locks  *locks.Keyed
	logger *slog.Logger

	// now is swappable in tests to pin the clock.
	now func() time.Time
}

// New builds a guard. reqLocks must be the same keyed lock handed to the
// score aggregator: both write the spam score, and a flag raised while a
// refresh holds the account's lock would otherwise race the refresh's
// persist.
func New(store LoginStore, bus Publisher, reqLocks *locks.Keyed, logger *slog.Logger) *Guard {
	return &Guard{
		store:  store,
		bus:    bus,
		locks:  reqLocks,
		logger: logger,
		now:    time.Now,
	}
}

// RecordLogin appends the current time-of-day to the account's history and
// scans for a bot-like run. Append and scan are linearized per account;
// logins on different accounts proceed in parallel. History is never
// truncated; only a run of strictly consecutive equal entries ending at the
// newest login can trip the threshold.
func (g *Guard) RecordLogin(ctx context.Context, accountID uuid.UUID) (*Result, error) {
	key := accountID.String()
	g.locks.Lock(key)
	defer g.locks.Unlock(key)

	account, err := g.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	clockTime := g.now().Format("15:04:05")
	if err := g.store.AppendLogin(ctx, accountID, clockTime); err != nil {
		return nil, err
	}

	history, err := g.store.LoginTimes(ctx, accountID)
	if err != nil {
		return nil, err
	}

	run := reputation.RunLength(history)
	if run < reputation.BotRunThreshold {
		status := "login recorded at " + clockTime
		if len(history) == 1 {
			status = "first login recorded at " + clockTime
		}
		return &Result{Accepted: true, Status: status, ClockTime: clockTime, RunLength: run}, nil
	}

	spam := reputation.SpamPenalty(account.Scores.SpamScore)
	if err := g.store.UpdateSpamScore(ctx, accountID, spam); err != nil {
		return nil, err
	}

	g.logger.Warn("bot-like login detected",
		"account_id", accountID,
		"clock_time", clockTime,
		"run_length", run,
		"spam_score", spam,
	)

	if g.bus != nil {
		evt := events.LoginFlagged{
			AccountID: accountID.String(),
			ClockTime: clockTime,
			RunLength: run,
			SpamScore: spam,
			Timestamp: events.Now(),
		}
		if err := g.bus.Publish(events.SubjectLoginFlagged, evt); err != nil {
			g.logger.Warn("failed to publish login flag", "error", err)
		}
	}

	return &Result{
		Accepted:  false,
		Status:    "bot-like login detected at " + clockTime,
		ClockTime: clockTime,
		RunLength: run,
		SpamScore: spam,
	}, nil
}
