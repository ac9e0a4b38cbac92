package game

import "errors"

var (
	// ErrNoActiveProject is returned when an action needs a project in progress.
	ErrNoActiveProject = errors.New("no active project")
	// ErrProjectInProgress is returned when accepting a project while another is active.
	ErrProjectInProgress = errors.New("a project is already in progress")
	// ErrInvalidProject is returned for projects that cannot be worked on.
	ErrInvalidProject = errors.New("invalid project")
	// ErrStaffNotFound is returned when an action names an unknown staff member.
	ErrStaffNotFound = errors.New("staff member not found")
	// ErrDuplicateStaff is returned when hiring a staff id that already exists.
	ErrDuplicateStaff = errors.New("staff member already hired")
	// ErrInsufficientFunds is returned when the studio cannot pay for an action.
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrNoPendingMinigame is returned when completing a minigame that was not offered.
	ErrNoPendingMinigame = errors.New("no such pending minigame")
	// ErrInvalidEquipment is returned for equipment that cannot be bought.
	ErrInvalidEquipment = errors.New("invalid equipment")
	// ErrUnknownAction is returned for action types the engine does not handle.
	ErrUnknownAction = errors.New("unknown action")
)
