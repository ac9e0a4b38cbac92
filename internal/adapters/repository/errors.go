package repository

import "errors"

// Sentinel kinds for archive errors.
var (
	ErrNotFound     = errors.New("review not found")
	ErrInvalidLimit = errors.New("invalid review limit")
	ErrEmptyPath    = errors.New("empty archive path")
	ErrClosed       = errors.New("archive closed")
)
