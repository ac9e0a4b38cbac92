package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted   = errors.New("service not started")
	ErrMissingInput = errors.New("missing input")
	// ErrBackpressure refuses work while completion events cannot be queued.
	ErrBackpressure = errors.New("completion queue full")
)
