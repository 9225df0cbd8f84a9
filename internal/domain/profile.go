package domain

import (
	"time"

	"github.com/google/uuid"
)

// HistoryLimit bounds the per-profile sequence of prior-period level scores.
const HistoryLimit = 12

// ActivityEvent is one entry of an account's activity log, forwarded to the
// scoring model as part of the feature payload.
type ActivityEvent struct {
	Event     string    `json:"event"`
	Timestamp time.Time `json:"timestamp"`
	Active    bool      `json:"active"`
}

// RoleProfile holds the raw behavioral feature set for one account. Exactly
// one profile exists per account (unique foreign key). The core reads it;
// real-world activity recording writes it, except for the bounded
// history-scores sequence appended after each aggregation cycle.
type RoleProfile struct {
	AccountID     uuid.UUID
	Role          Role
	Features      map[string]float64
	HistoryScores []float64
	UpdatedAt     time.Time
}

// Feature returns the named feature, or 0 when unrecorded, so the scoring
// model always receives a complete numeric vector.
func (p *RoleProfile) Feature(name string) float64 {
	if p.Features == nil {
		return 0
	}
	return p.Features[name]
}

// AppendHistory appends score to a history window, dropping the oldest
// entries beyond HistoryLimit.
func AppendHistory(history []float64, score float64) []float64 {
	history = append(history, score)
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}
	return history
}
