package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/loopwork/credo/internal/domain"
)

// GetEngagementRecord looks up reference data by engagement identifier.
func (s *Store) GetEngagementRecord(ctx context.Context, engagementID int64) (*domain.EngagementRecord, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT engagement_id, social, financial, gig_worker, job
		FROM engagement_records
		WHERE engagement_id = $1`,
		engagementID,
	)

	var rec domain.EngagementRecord
	err := row.Scan(&rec.EngagementID, &rec.Social, &rec.Financial, &rec.GigWorker, &rec.Job)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NotFoundf("engagement record %d", engagementID)
	}
	if err != nil {
		return nil, fmt.Errorf("get engagement record: %w", err)
	}
	return &rec, nil
}

// NextEngagementRecords returns up to limit records with identifiers
// strictly greater than afterID, ascending. Used to build the boost
// normalization window.
func (s *Store) NextEngagementRecords(ctx context.Context, afterID int64, limit int) ([]domain.EngagementRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT engagement_id, social, financial, gig_worker, job
		FROM engagement_records
		WHERE engagement_id > $1
		ORDER BY engagement_id ASC
		LIMIT $2`,
		afterID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("next engagement records: %w", err)
	}
	defer rows.Close()

	var records []domain.EngagementRecord
	for rows.Next() {
		var rec domain.EngagementRecord
		if err := rows.Scan(&rec.EngagementID, &rec.Social, &rec.Financial, &rec.GigWorker, &rec.Job); err != nil {
			return nil, fmt.Errorf("scan engagement record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return records, nil
}

// InsertEngagementRecord seeds reference data. Records are immutable;
// a duplicate identifier is rejected.
func (s *Store) InsertEngagementRecord(ctx context.Context, rec domain.EngagementRecord) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO engagement_records (engagement_id, social, financial, gig_worker, job)
		VALUES ($1, $2, $3, $4, $5)`,
		rec.EngagementID, rec.Social, rec.Financial, rec.GigWorker, rec.Job,
	)
	if isUniqueViolation(err) {
		return domain.Validationf("engagement record %d already exists", rec.EngagementID)
	}
	if err != nil {
		return fmt.Errorf("insert engagement record: %w", err)
	}
	return nil
}
