package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of participant roles on the platform.
type Role string

const (
	RoleDriver   Role = "driver"
	RoleMerchant Role = "merchant"
	RoleDelivery Role = "delivery"
)

// ValidRole reports whether r is one of the known participant roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleDriver, RoleMerchant, RoleDelivery:
		return true
	}
	return false
}

// ScoreBundle is the derived reputation state embedded in an account.
// Tier is always a function of LevelScore at the time it was computed;
// nothing outside the aggregator writes it.
type ScoreBundle struct {
	LevelScore     float64    `json:"level_score"`
	CreditScore    float64    `json:"credit_score"`
	SpamScore      float64    `json:"spam_score"`
	Tier           string     `json:"tier"`
	InitialBoost   float64    `json:"initial_boost"`
	LastCalculated *time.Time `json:"last_calculated,omitempty"`
}

// Account is a platform participant: identity plus derived reputation state.
type Account struct {
	ID           uuid.UUID `json:"account_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	Rating       float64   `json:"rating"`
	Ratings      []float64 `json:"ratings,omitempty"`
	Scores       ScoreBundle
	EngagementID *int64 `json:"engagement_id,omitempty"`
	CreatedAt    time.Time
}
