// Package aggregator orchestrates one score refresh: it assembles the
// role-specific feature vector, submits it to the external scoring model,
// merges the response with locally held adjustments and persists the
// classified bundle. Everything but the model call is a pure
// merge-and-classify.
package aggregator

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/loopwork/credo/internal/domain"
	"github.com/loopwork/credo/internal/events"
	"github.com/loopwork/credo/internal/locks"
	"github.com/loopwork/credo/internal/reputation"
	"github.com/loopwork/credo/internal/scoring"
)

// activityWindow bounds the number of recent activity events sent upstream.
const activityWindow = 50

// populationSample bounds the number of same-role peer vectors sent with a
// credit-score request.
const populationSample = 20

// Store is the persistence surface the aggregation cycles need.
type Store interface {
	GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetProfile(ctx context.Context, accountID uuid.UUID) (*domain.RoleProfile, error)
	RecentActivity(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.ActivityEvent, error)
	UpdateScores(ctx context.Context, id uuid.UUID, b domain.ScoreBundle) error
	SetHistoryScores(ctx context.Context, accountID uuid.UUID, history []float64) error
	SampleFeatures(ctx context.Context, role domain.Role, limit int) ([]map[string]float64, error)
	UpdateCreditScore(ctx context.Context, id uuid.UUID, score float64) error
}

// Publisher emits lifecycle events. May be nil-safe.
type Publisher interface {
	Publish(subject string, data any) error
}

type Aggregator struct {
	store  Store
	scorer scoring.Scorer
	bus    Publisher
	locks  *locks.Keyed
	logger *slog.Logger

	now func() time.Time
}

// New builds an aggregator. reqLocks must be the same keyed lock the login
// cadence guard holds while it writes spam penalties; a refresh and a flag
// on one account then serialize instead of racing on the spam score.
func New(store Store, scorer scoring.Scorer, bus Publisher, reqLocks *locks.Keyed, logger *slog.Logger) *Aggregator {
	return &Aggregator{
		store:  store,
		scorer: scorer,
		bus:    bus,
		locks:  reqLocks,
		logger: logger,
		now:    time.Now,
	}
}

// Refresh produces a fresh snapshot for one account. Refreshes for the same
// account are serialized, so at most one model call per account is in
// flight and a slow response cannot overwrite a newer spam penalty.
// On upstream failure nothing is written; the previous bundle stays
// authoritative.
func (a *Aggregator) Refresh(ctx context.Context, accountID uuid.UUID) (*domain.Snapshot, error) {
	key := accountID.String()
	a.locks.Lock(key)
	defer a.locks.Unlock(key)

	account, err := a.store.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	profile, err := a.store.GetProfile(ctx, accountID)
	if err != nil {
		return nil, err
	}
	activity, err := a.store.RecentActivity(ctx, accountID, activityWindow)
	if err != nil {
		return nil, err
	}

	resp, err := a.scorer.Score(ctx, scoring.Request{
		UserID:        accountID.String(),
		Role:          string(account.Role),
		Features:      featureVector(profile),
		ActivityLog:   activity,
		HistoryScores: profile.HistoryScores,
	})
	if err != nil {
		return nil, err
	}

	level := reputation.MergeLevel(resp.FinalScore, account.Scores.InitialBoost)
	spam := reputation.MergeSpam(account.Scores.SpamScore, resp.SpamScore)
	tier := reputation.Classify(level)
	calculatedAt := a.now().UTC()

	bundle := domain.ScoreBundle{
		LevelScore:     level,
		CreditScore:    math.Round(resp.CreditScore),
		SpamScore:      spam,
		Tier:           string(tier),
		InitialBoost:   account.Scores.InitialBoost,
		LastCalculated: &calculatedAt,
	}
	if err := a.store.UpdateScores(ctx, accountID, bundle); err != nil {
		return nil, err
	}
	if err := a.store.SetHistoryScores(ctx, accountID, domain.AppendHistory(profile.HistoryScores, level)); err != nil {
		return nil, err
	}

	a.logger.Info("score refreshed",
		"account_id", accountID,
		"level_score", level,
		"tier", tier,
		"spam_score", spam,
	)

	if a.bus != nil {
		evt := events.ScoreRefreshed{
			AccountID:  accountID.String(),
			LevelScore: level,
			Tier:       string(tier),
			Timestamp:  events.Now(),
		}
		if err := a.bus.Publish(events.SubjectScoreRefreshed, evt); err != nil {
			a.logger.Warn("failed to publish refresh event", "error", err)
		}
	}

	return &domain.Snapshot{
		AccountID:        accountID,
		LevelScore:       level,
		CreditScore:      bundle.CreditScore,
		SpamScore:        spam,
		Tier:             string(tier),
		Boost:            account.Scores.InitialBoost,
		Penalty:          resp.Penalty,
		ConsistencyBonus: resp.ConsistencyBonus,
		ReasonLog:        resp.ReasonLog,
		CalculatedAt:     calculatedAt,
	}, nil
}

// CreditScore runs the population-relative credit cycle for one account:
// the account's feature vector is submitted next to a sample of same-role
// peer vectors and the model's figure is persisted on the account. Shares
// the per-account lock with Refresh, so the two cycles never race on the
// score columns.
func (a *Aggregator) CreditScore(ctx context.Context, accountID uuid.UUID) (float64, error) {
	key := accountID.String()
	a.locks.Lock(key)
	defer a.locks.Unlock(key)

	account, err := a.store.GetAccount(ctx, accountID)
	if err != nil {
		return 0, err
	}
	profile, err := a.store.GetProfile(ctx, accountID)
	if err != nil {
		return 0, err
	}
	population, err := a.store.SampleFeatures(ctx, account.Role, populationSample)
	if err != nil {
		return 0, err
	}

	resp, err := a.scorer.CreditScore(ctx, scoring.CreditRequest{
		UserID:     accountID.String(),
		Role:       string(account.Role),
		Features:   featureVector(profile),
		Population: population,
	})
	if err != nil {
		return 0, err
	}

	credit := math.Round(resp.CreditScore)
	if err := a.store.UpdateCreditScore(ctx, accountID, credit); err != nil {
		return 0, err
	}

	a.logger.Info("credit score updated",
		"account_id", accountID,
		"credit_score", credit,
		"population_size", len(population),
	)
	return credit, nil
}
