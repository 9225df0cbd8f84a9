package domain

import "github.com/google/uuid"

// LeaderboardEntry is one row of a ranked view over persisted level scores.
type LeaderboardEntry struct {
	AccountID   uuid.UUID `json:"account_id"`
	DisplayName string    `json:"display_name"`
	Role        Role      `json:"role"`
	LevelScore  float64   `json:"level_score"`
	Tier        string    `json:"tier"`
	Rating      float64   `json:"rating"`
}
