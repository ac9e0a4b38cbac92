package queue

import "errors"

var (
	// ErrClosed is returned by Publish after Close.
	ErrClosed = errors.New("queue: closed")
	// ErrFull is returned by Publish when the buffer has no room.
	ErrFull = errors.New("queue: full")
)
