// Package registration creates accounts with their one-time onboarding
// boost and role profile. The whole operation is all-or-nothing: an
// unresolvable engagement identifier rejects the registration before any
// row is written.
package registration

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/loopwork/credo/internal/domain"
	"github.com/loopwork/credo/internal/events"
	"github.com/loopwork/credo/internal/reputation"
)

// successorWindow is the number of records after the partner's own that form
// the boost normalization window.
const successorWindow = 3

// EngagementRegistry reads the immutable partner-engagement reference data.
type EngagementRegistry interface {
	GetEngagementRecord(ctx context.Context, engagementID int64) (*domain.EngagementRecord, error)
	NextEngagementRecords(ctx context.Context, afterID int64, limit int) ([]domain.EngagementRecord, error)
}

// AccountWriter persists the account and role profile transactionally.
type AccountWriter interface {
	CreateAccountWithProfile(ctx context.Context, a *domain.Account, p *domain.RoleProfile) error
}

// Publisher emits lifecycle events. May be nil-safe.
type Publisher interface {
	Publish(subject string, data any) error
}

// Input is a registration request after the auth layer has validated
// identity fields.
type Input struct {
	Username     string
	Email        string
	Role         domain.Role
	EngagementID int64
}

type Service struct {
	registry EngagementRegistry
	accounts AccountWriter
	bus      Publisher
	logger   *slog.Logger
}

func New(registry EngagementRegistry, accounts AccountWriter, bus Publisher, logger *slog.Logger) *Service {
	return &Service{registry: registry, accounts: accounts, bus: bus, logger: logger}
}

// Register validates the input, computes the onboarding boost from the
// partner's engagement record and its normalization window, and persists
// account plus role profile in one transaction.
func (s *Service) Register(ctx context.Context, in Input) (*domain.Account, error) {
	if in.Username == "" || in.Email == "" {
		return nil, domain.Validationf("username and email are required")
	}
	if !domain.ValidRole(in.Role) {
		return nil, domain.Validationf("unknown role %q", in.Role)
	}
	if in.EngagementID <= 0 {
		return nil, domain.Validationf("engagement identifier is required")
	}

	own, err := s.registry.GetEngagementRecord(ctx, in.EngagementID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.Validationf("engagement record %d not found", in.EngagementID)
		}
		return nil, err
	}

	successors, err := s.registry.NextEngagementRecords(ctx, in.EngagementID, successorWindow)
	if err != nil {
		return nil, err
	}
	window := append([]domain.EngagementRecord{*own}, successors...)
	boost := reputation.Boost(*own, window)

	engagementID := in.EngagementID
	account := &domain.Account{
		ID:           uuid.New(),
		Username:     in.Username,
		Email:        in.Email,
		Role:         in.Role,
		EngagementID: &engagementID,
		Scores: domain.ScoreBundle{
			Tier:         string(reputation.Classify(0)),
			InitialBoost: boost,
		},
	}
	profile := &domain.RoleProfile{
		AccountID: account.ID,
		Role:      in.Role,
		Features:  map[string]float64{},
	}

	if err := s.accounts.CreateAccountWithProfile(ctx, account, profile); err != nil {
		return nil, err
	}

	s.logger.Info("account registered",
		"account_id", account.ID,
		"role", account.Role,
		"initial_boost", boost,
	)

	if s.bus != nil {
		evt := events.AccountRegistered{
			AccountID:    account.ID.String(),
			Role:         string(account.Role),
			InitialBoost: boost,
			Timestamp:    events.Now(),
		}
		if err := s.bus.Publish(events.SubjectAccountRegistered, evt); err != nil {
			s.logger.Warn("failed to publish registration event", "error", err)
		}
	}

	return account, nil
}
