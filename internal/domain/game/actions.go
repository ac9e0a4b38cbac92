package game

import "github.com/okian/tycoon/internal/domain/model"

// Action is a player or clock input to the engine.
type Action interface {
	// Name identifies the action in logs and metrics.
	Name() string
}

// AcceptProject starts work on a project built from a template.
type AcceptProject struct {
	Project model.Project
}

// SetFocus replaces the player's focus allocation.
type SetFocus struct {
	Focus model.FocusAllocation
}

// HireStaff adds a staff member for a signing fee of three days' salary.
type HireStaff struct {
	Member model.StaffMember
}

// AssignStaff puts a staff member to work on the active project.
type AssignStaff struct {
	StaffID string
}

// UnassignStaff takes a staff member off the active project.
type UnassignStaff struct {
	StaffID string
}

// RestStaff sends a staff member to rest.
type RestStaff struct {
	StaffID string
}

// TrainStaff starts a training course.
type TrainStaff struct {
	StaffID string
	Skill   string
}

// SpendPerkPoint raises one player attribute.
type SpendPerkPoint struct {
	Attribute model.Attribute
}

// SetPerks replaces the aggregated studio perk modifiers.
type SetPerks struct {
	Perks model.PerkModifiers
}

// WorkSession performs one session of work on the active project's current stage.
type WorkSession struct{}

// CompleteMinigame resolves the pending minigame with a score from 0 to 100.
type CompleteMinigame struct {
	TriggerID string
	Score     float64
}

// AdvanceDay moves the calendar forward by one day.
type AdvanceDay struct{}

// PurchaseEquipment buys a piece of studio gear.
type PurchaseEquipment struct {
	Equipment model.Equipment
}

func (AcceptProject) Name() string     { return "accept_project" }
func (SetFocus) Name() string          { return "set_focus" }
func (HireStaff) Name() string         { return "hire_staff" }
func (AssignStaff) Name() string       { return "assign_staff" }
func (UnassignStaff) Name() string     { return "unassign_staff" }
func (RestStaff) Name() string         { return "rest_staff" }
func (TrainStaff) Name() string        { return "train_staff" }
func (SpendPerkPoint) Name() string    { return "spend_perk_point" }
func (SetPerks) Name() string          { return "set_perks" }
func (WorkSession) Name() string       { return "work_session" }
func (CompleteMinigame) Name() string  { return "complete_minigame" }
func (AdvanceDay) Name() string        { return "advance_day" }
func (PurchaseEquipment) Name() string { return "purchase_equipment" }
