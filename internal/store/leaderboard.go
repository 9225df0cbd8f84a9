package store

import (
	"context"
	"fmt"

	"github.com/loopwork/credo/internal/domain"
)

// TopAccounts returns up to limit accounts ordered by level score
// descending. Ties keep insertion order: the account registered first ranks
// first, regardless of later score churn.
func (s *Store) TopAccounts(ctx context.Context, role domain.Role, limit int) ([]domain.LeaderboardEntry, error) {
	query := `
		SELECT id, username, role, level_score, tier, rating
		FROM accounts
		WHERE ($1 = '' OR role = $1)
		ORDER BY level_score DESC, created_at ASC, id ASC
		LIMIT $2`

	rows, err := s.pool.Query(ctx, query, string(role), limit)
	if err != nil {
		return nil, fmt.Errorf("top accounts: %w", err)
	}
	defer rows.Close()

	var entries []domain.LeaderboardEntry
	for rows.Next() {
		var e domain.LeaderboardEntry
		if err := rows.Scan(&e.AccountID, &e.DisplayName, &e.Role, &e.LevelScore, &e.Tier, &e.Rating); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return entries, nil
}
