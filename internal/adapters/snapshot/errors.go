package snapshot

import "errors"

var (
	// ErrInvalidSnapshot is returned when a save file does not match the save schema.
	ErrInvalidSnapshot = errors.New("invalid snapshot")
	// ErrUnsupportedVersion is returned for save files written by a newer format.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	// ErrTooLarge is returned when a decompressed save file exceeds the size limit.
	ErrTooLarge = errors.New("snapshot too large")
)
