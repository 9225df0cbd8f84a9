package domain

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is the result of one aggregation cycle. Transient: only the
// ScoreBundle fields are persisted back onto the account.
type Snapshot struct {
	AccountID        uuid.UUID `json:"account_id"`
	LevelScore       float64   `json:"level_score"`
	CreditScore      float64   `json:"credit_score"`
	SpamScore        float64   `json:"spam_score"`
	Tier             string    `json:"tier"`
	Boost            float64   `json:"boost"`
	Penalty          float64   `json:"penalty"`
	ConsistencyBonus float64   `json:"consistency_bonus"`
	ReasonLog        string    `json:"reason_log"`
	CalculatedAt     time.Time `json:"calculated_at"`
}
