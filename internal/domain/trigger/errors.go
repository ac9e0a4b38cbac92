package trigger

import "errors"

var (
	// ErrNotPending is returned when consuming a trigger the stage is not waiting on.
	ErrNotPending = errors.New("trigger is not pending on stage")
	// ErrUnknownReward is returned for a reward kind the evaluator cannot apply.
	ErrUnknownReward = errors.New("unknown reward kind")
)
