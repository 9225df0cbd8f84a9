package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/loopwork/credo/internal/domain"
)

// GetProfile fetches the role profile owned by an account.
func (s *Store) GetProfile(ctx context.Context, accountID uuid.UUID) (*domain.RoleProfile, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT account_id, role, features, history_scores, updated_at
		FROM role_profiles
		WHERE account_id = $1`,
		accountID,
	)

	var p domain.RoleProfile
	err := row.Scan(&p.AccountID, &p.Role, &p.Features, &p.HistoryScores, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundf("role profile for account %s", accountID)
	}
	if err != nil {
		return nil, fmt.Errorf("get role profile: %w", err)
	}
	return &p, nil
}

// SampleFeatures returns up to limit feature vectors of the given role's
// most recently updated profiles, used as the peer population for a
// credit-score request.
func (s *Store) SampleFeatures(ctx context.Context, role domain.Role, limit int) ([]map[string]float64, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT features FROM role_profiles
		WHERE role = $1
		ORDER BY updated_at DESC
		LIMIT $2`,
		string(role), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("sample features: %w", err)
	}
	defer rows.Close()

	var samples []map[string]float64
	for rows.Next() {
		var features map[string]float64
		if err := rows.Scan(&features); err != nil {
			return nil, fmt.Errorf("scan features: %w", err)
		}
		samples = append(samples, features)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return samples, nil
}

// SetHistoryScores replaces the bounded prior-period score sequence. The
// caller holds the per-account lock, so read-modify-write is safe here.
func (s *Store) SetHistoryScores(ctx context.Context, accountID uuid.UUID, history []float64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE role_profiles SET history_scores = $2, updated_at = now()
		WHERE account_id = $1`,
		accountID, history,
	)
	if err != nil {
		return fmt.Errorf("set history scores: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("role profile for account %s", accountID)
	}
	return nil
}
