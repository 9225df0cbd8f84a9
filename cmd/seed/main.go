// Seed loads partner engagement reference data into Postgres. The file is a
// JSON array of engagement records; existing identifiers are skipped.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/loopwork/credo/internal/config"
	"github.com/loopwork/credo/internal/domain"
	"github.com/loopwork/credo/internal/store"
)

func main() {
	var (
		path = flag.String("file", "engagement-records.json", "Path to the engagement records JSON file")
	)
	flag.Parse()

	cfg := config.Load()
	handler := slog.NewJSONHandler(os.Stdout, nil)
	logger := slog.New(handler)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	records, err := loadRecords(*path)
	if err != nil {
		logger.Error("failed to load records", "error", err, "path", *path)
		os.Exit(1)
	}
	if len(records) == 0 {
		logger.Error("no records in file", "path", *path)
		os.Exit(1)
	}

	ctx := context.Background()
	db, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	inserted, skipped := 0, 0
	for _, rec := range records {
		err := db.InsertEngagementRecord(ctx, rec)
		switch {
		case err == nil:
			inserted++
		case errors.Is(err, domain.ErrValidation):
			// Already present — records are immutable, leave it alone.
			skipped++
		default:
			logger.Error("insert failed", "engagement_id", rec.EngagementID, "error", err)
			os.Exit(1)
		}
	}

	logger.Info("seed complete", "inserted", inserted, "skipped", skipped)
}

func loadRecords(path string) ([]domain.EngagementRecord, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	var records []domain.EngagementRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parse records: %w", err)
	}
	return records, nil
}
