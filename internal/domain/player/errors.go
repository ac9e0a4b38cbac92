package player

import "errors"

// Sentinel errors for player progression.
var (
	ErrNoPerkPoints     = errors.New("no perk points available")
	ErrUnknownAttribute = errors.New("unknown attribute")
)
