// Package model contains domain models passed between layers.
package model

import "time"

// MaxUsernameLength caps usernames, matching the persisted schema.
const MaxUsernameLength = 50

// Record is one persisted result of a beauty-scoring submission.
// Records are append-only: once created they are never mutated.
type Record struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Score     float64   `json:"score"`
	CreatedAt time.Time `json:"createdAt"`
}
