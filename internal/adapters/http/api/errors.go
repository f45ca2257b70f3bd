package api

import "errors"

// Sentinel kinds for handler-level input faults.
var (
	ErrBadRequest   = errors.New("bad request")
	ErrMissingFile  = errors.New("no image file provided")
	ErrFileTooLarge = errors.New("image too large (max 5MB)")
	ErrRateLimited  = errors.New("too many uploads, slow down")
)
