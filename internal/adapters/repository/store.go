// Package repository defines the score store interface and its
// implementations: an in-process store for tests and dev mode, and a
// Postgres store for production.
package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/aesthetiq/beauty-battle/internal/domain/model"
	"github.com/aesthetiq/beauty-battle/internal/domain/normalize"
)

// DefaultTopLimit is used when FindTop receives a non-positive limit.
const DefaultTopLimit = 10

// Store provides append-only persistence and ordered retrieval of
// score records. There are no update or delete operations.
type Store interface {
	// Create persists a new record with the current timestamp.
	// Returns ErrValidation if username or score is out of contract;
	// ingestion should already have normalized both.
	Create(ctx context.Context, username string, score float64) (model.Record, error)

	// FindAll returns every record ordered by (score desc, createdAt desc).
	FindAll(ctx context.Context) ([]model.Record, error)

	// FindTop returns the FindAll prefix of at most limit records.
	// A non-positive limit falls back to DefaultTopLimit.
	FindTop(ctx context.Context, limit int) ([]model.Record, error)

	// FindByUser returns records matching username exactly (case-sensitive),
	// ordered by createdAt desc.
	FindByUser(ctx context.Context, username string) ([]model.Record, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) int
}

// validate re-checks the ingestion contract before a write. A failure here
// indicates a bug in the ingestion layer, not bad user input.
func validate(username string, score float64) error {
	if strings.TrimSpace(username) == "" {
		return fmt.Errorf("%w: empty username", ErrValidation)
	}
	if len(username) > model.MaxUsernameLength {
		return fmt.Errorf("%w: username longer than %d characters", ErrValidation, model.MaxUsernameLength)
	}
	if !normalize.InRange(score) {
		return fmt.Errorf("%w: score %v outside [%v, %v]", ErrValidation, score, normalize.MinScore, normalize.MaxScore)
	}
	return nil
}
