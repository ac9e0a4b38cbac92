package playthrough

import "errors"

var (
	// ErrStalled is returned when a project does not finish within the
	// session budget.
	ErrStalled = errors.New("project stalled")
	// ErrNoTemplates is returned when the studio offers nothing to accept.
	ErrNoTemplates = errors.New("no templates available")
)
