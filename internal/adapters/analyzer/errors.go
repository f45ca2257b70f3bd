package analyzer

import "errors"

// Sentinel kinds for analyzer failures.
var (
	// ErrNotConfigured means no API key was provided at startup.
	ErrNotConfigured = errors.New("analyzer not configured")

	// ErrUnavailable covers transport failures and timeouts.
	ErrUnavailable = errors.New("analysis service unavailable")

	// ErrBadStatus marks a non-success or undecodable upstream response.
	ErrBadStatus = errors.New("analysis service returned failure status")
)
