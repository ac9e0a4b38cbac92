package staff

import "errors"

var (
	// ErrNotIdle is returned when an action needs an idle staff member.
	ErrNotIdle = errors.New("staff member is not idle")
	// ErrLowEnergy is returned when a staff member is too tired to work or train.
	ErrLowEnergy = errors.New("staff member energy below minimum")
	// ErrAlreadyAssigned is returned when a staff member already has a project.
	ErrAlreadyAssigned = errors.New("staff member already assigned")
	// ErrNotAssigned is returned when unassigning a staff member with no project.
	ErrNotAssigned = errors.New("staff member not assigned")
	// ErrLevelTooLow is returned when the player cannot yet run training.
	ErrLevelTooLow = errors.New("player level too low for training")
	// ErrNoSkill is returned when training names no skill.
	ErrNoSkill = errors.New("training skill required")
)
