package scorer

import "errors"

// Sentinel kinds for scorer failures. All of them surface to clients as
// upstream errors; the split exists for logs and tests.
var (
	// ErrUnavailable covers transport failures and timeouts.
	ErrUnavailable = errors.New("scoring service unavailable")

	// ErrBadStatus marks a non-success response from the scoring service.
	ErrBadStatus = errors.New("scoring service returned failure status")

	// ErrMalformedScore marks a success response whose score cannot be
	// parsed as a finite number.
	ErrMalformedScore = errors.New("malformed score")
)
