package repository

import "errors"

// Sentinel kinds for store errors.
var (
	// ErrValidation marks a write that failed the store's defensive
	// re-check of the ingestion contract.
	ErrValidation = errors.New("record validation failed")

	// ErrStorage wraps failures of the underlying storage engine.
	ErrStorage = errors.New("storage unavailable")
)
