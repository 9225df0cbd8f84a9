package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/loopwork/credo/internal/domain"
)

// AppendLogin records one login attempt. clockTime is the HH:MM:SS
// time-of-day; the wall-clock timestamp is kept alongside for the activity
// log.
func (s *Store) AppendLogin(ctx context.Context, accountID uuid.UUID, clockTime string) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO login_history (account_id, clock_time, recorded_at)
		VALUES ($1, $2, now())`,
		accountID, clockTime,
	)
	if err != nil {
		return fmt.Errorf("append login: %w", err)
	}
	return nil
}

// LoginTimes returns the full time-of-day history for an account, oldest
// first. The history is append-only and never truncated.
func (s *Store) LoginTimes(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT clock_time FROM login_history
		WHERE account_id = $1
		ORDER BY id ASC`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("login times: %w", err)
	}
	defer rows.Close()

	var times []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan login time: %w", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return times, nil
}

// RecentActivity builds the activity-log slice sent to the scoring model
// from the newest login rows, oldest first.
func (s *Store) RecentActivity(ctx context.Context, accountID uuid.UUID, limit int) ([]domain.ActivityEvent, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT recorded_at FROM login_history
		WHERE account_id = $1
		ORDER BY id DESC
		LIMIT $2`,
		accountID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	defer rows.Close()

	var events []domain.ActivityEvent
	for rows.Next() {
		var ev domain.ActivityEvent
		if err := rows.Scan(&ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		ev.Event = "login"
		ev.Active = true
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	// Reverse to oldest-first.
	for i, j := 0, len(events)-1; i < j; i, j = i+1, j-1 {
		events[i], events[j] = events[j], events[i]
	}
	return events, nil
}
