package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/loopwork/credo/internal/domain"
)

// GetAccount fetches an account with its embedded score bundle.
func (s *Store) GetAccount(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT id, username, email, role, rating, ratings,
		       level_score, credit_score, spam_score, tier, initial_boost, last_calculated,
		       engagement_id, created_at
		FROM accounts
		WHERE id = $1`,
		id,
	)

	var a domain.Account
	err := row.Scan(&a.ID, &a.Username, &a.Email, &a.Role, &a.Rating, &a.Ratings,
		&a.Scores.LevelScore, &a.Scores.CreditScore, &a.Scores.SpamScore,
		&a.Scores.Tier, &a.Scores.InitialBoost, &a.Scores.LastCalculated,
		&a.EngagementID, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundf("account %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

// CreateAccountWithProfile inserts the account and its role profile in one
// transaction. Registration is all-or-nothing: an account without a profile
// would read as NotFound to every downstream component.
func (s *Store) CreateAccountWithProfile(ctx context.Context, a *domain.Account, p *domain.RoleProfile) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO accounts (id, username, email, role, rating, ratings,
		                      level_score, credit_score, spam_score, tier, initial_boost,
		                      engagement_id, created_at)
		VALUES ($1, $2, $3, $4, 0, '{}', 0, 0, 0, $5, $6, $7, now())`,
		a.ID, a.Username, a.Email, a.Role, a.Scores.Tier, a.Scores.InitialBoost, a.EngagementID,
	)
	if isUniqueViolation(err) {
		return domain.Validationf("username or email already registered")
	}
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO role_profiles (account_id, role, features, history_scores, updated_at)
		VALUES ($1, $2, $3, $4, now())`,
		p.AccountID, p.Role, p.Features, p.HistoryScores,
	)
	if err != nil {
		return fmt.Errorf("insert role profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit registration: %w", err)
	}
	return nil
}

// UpdateScores persists a fresh score bundle. The tier column is only ever
// written here, alongside the level score it was derived from.
func (s *Store) UpdateScores(ctx context.Context, id uuid.UUID, b domain.ScoreBundle) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE accounts
		SET level_score = $2, credit_score = $3, spam_score = $4, tier = $5, last_calculated = $6
		WHERE id = $1`,
		id, b.LevelScore, b.CreditScore, b.SpamScore, b.Tier, b.LastCalculated,
	)
	if err != nil {
		return fmt.Errorf("update scores: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("account %s", id)
	}
	return nil
}

// UpdateCreditScore writes only the credit score, used by the
// population-relative credit cycle.
func (s *Store) UpdateCreditScore(ctx context.Context, id uuid.UUID, score float64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE accounts SET credit_score = $2 WHERE id = $1`, id, score)
	if err != nil {
		return fmt.Errorf("update credit score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("account %s", id)
	}
	return nil
}

// UpdateSpamScore writes only the spam-risk score, used by the login guard.
func (s *Store) UpdateSpamScore(ctx context.Context, id uuid.UUID, spam float64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE accounts SET spam_score = $2 WHERE id = $1`, id, spam)
	if err != nil {
		return fmt.Errorf("update spam score: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("account %s", id)
	}
	return nil
}

// AddRating appends a rating and recomputes the running average in one
// statement.
func (s *Store) AddRating(ctx context.Context, id uuid.UUID, rating float64) (float64, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE accounts
		SET ratings = array_append(ratings, $2),
		    rating = (SELECT avg(r) FROM unnest(array_append(ratings, $2)) AS r)
		WHERE id = $1
		RETURNING rating`,
		id, rating,
	)
	var avg float64
	err := row.Scan(&avg)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, domain.NotFoundf("account %s", id)
	}
	if err != nil {
		return 0, fmt.Errorf("add rating: %w", err)
	}
	return avg, nil
}
