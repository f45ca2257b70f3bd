package service

import "errors"

// Error taxonomy surfaced to the HTTP layer.
var (
	// ErrInvalidInput marks client faults: missing file, wrong type,
	// missing username. Mapped to 4xx; never retried automatically.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUpstream marks external collaborator faults: failure status,
	// timeout, or an unparsable score. Mapped to 5xx; at most one
	// attempt per client request.
	ErrUpstream = errors.New("upstream failure")

	// ErrStorage marks persistence faults. Mapped to 5xx.
	ErrStorage = errors.New("storage failure")

	// ErrInternal marks bugs such as the store rejecting input that
	// ingestion already normalized. Clients see a generic message.
	ErrInternal = errors.New("internal error")
)
