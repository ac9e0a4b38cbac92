// Package staff holds the daily energy and assignment rules for studio staff.
package staff

import (
	"fmt"

	"github.com/okian/tycoon/internal/domain/model"
)

// Default rule values.
const (
	MaxEnergy             = 100
	DefaultWorkEnergyCost = 10
	DefaultRestEnergy     = 20
	DefaultMinEnergy      = 30
	DefaultTrainingDays   = 3
	DefaultMinTrainLevel  = 3
)

// Option applies a configuration option to Rules.
type Option func(*Rules)

// WithMinEnergy sets the energy needed to be assigned or to keep working.
func WithMinEnergy(v int) Option {
	return func(r *Rules) {
		if v >= 0 && v <= MaxEnergy {
			r.minEnergy = v
		}
	}
}

// WithWorkEnergyCost sets the energy a working day costs.
func WithWorkEnergyCost(v int) Option {
	return func(r *Rules) {
		if v >= 0 {
			r.workCost = v
		}
	}
}

// WithRestEnergy sets the energy a resting day restores.
func WithRestEnergy(v int) Option {
	return func(r *Rules) {
		if v > 0 {
			r.restGain = v
		}
	}
}

// WithTrainingDays sets how long a training course lasts.
func WithTrainingDays(v int) Option {
	return func(r *Rules) {
		if v > 0 {
			r.trainingDays = v
		}
	}
}

// WithMinTrainingLevel sets the player level that unlocks training.
func WithMinTrainingLevel(v int) Option {
	return func(r *Rules) {
		if v >= 0 {
			r.minTrainLevel = v
		}
	}
}

// Rules applies staff transitions. Every method takes and returns values;
// the input member is never modified.
type Rules struct {
	minEnergy     int
	workCost      int
	restGain      int
	trainingDays  int
	minTrainLevel int
}

// New creates Rules with the default values.
func New(opts ...Option) *Rules {
	r := &Rules{
		minEnergy:     DefaultMinEnergy,
		workCost:      DefaultWorkEnergyCost,
		restGain:      DefaultRestEnergy,
		trainingDays:  DefaultTrainingDays,
		minTrainLevel: DefaultMinTrainLevel,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CanAssign reports whether m may start work on a project.
func (r *Rules) CanAssign(m model.StaffMember) error {
	switch {
	case m.AssignedProjectID != "":
		return ErrAlreadyAssigned
	case m.Status != model.StaffIdle:
		return fmt.Errorf("%w: %s", ErrNotIdle, m.Status)
	case m.Energy < r.minEnergy:
		return fmt.Errorf("%w: %d < %d", ErrLowEnergy, m.Energy, r.minEnergy)
	}
	return nil
}

// Assign puts m to work on projectID.
func (r *Rules) Assign(m model.StaffMember, projectID string) (model.StaffMember, error) {
	if err := r.CanAssign(m); err != nil {
		return m, err
	}
	out := m.Clone()
	out.Status = model.StaffWorking
	out.AssignedProjectID = projectID
	return out, nil
}

// Unassign returns a working member to idle.
func (r *Rules) Unassign(m model.StaffMember) (model.StaffMember, error) {
	if m.AssignedProjectID == "" {
		return m, ErrNotAssigned
	}
	out := m.Clone()
	out.Status = model.StaffIdle
	out.AssignedProjectID = ""
	return out, nil
}

// Rest sends m to rest, releasing any assignment. Training cannot be
// interrupted.
func (r *Rules) Rest(m model.StaffMember) (model.StaffMember, error) {
	if m.Status == model.StaffTraining {
		return m, fmt.Errorf("%w: %s", ErrNotIdle, m.Status)
	}
	out := m.Clone()
	out.Status = model.StaffResting
	out.AssignedProjectID = ""
	return out, nil
}

// StartTraining begins a course on skill. The player must have reached the
// minimum training level.
func (r *Rules) StartTraining(m model.StaffMember, skill string, playerLevel int) (model.StaffMember, error) {
	if skill == "" {
		return m, ErrNoSkill
	}
	if playerLevel < r.minTrainLevel {
		return m, fmt.Errorf("%w: %d < %d", ErrLevelTooLow, playerLevel, r.minTrainLevel)
	}
	if m.Status != model.StaffIdle || m.AssignedProjectID != "" {
		return m, fmt.Errorf("%w: %s", ErrNotIdle, m.Status)
	}
	if m.Energy < r.minEnergy {
		return m, fmt.Errorf("%w: %d < %d", ErrLowEnergy, m.Energy, r.minEnergy)
	}
	out := m.Clone()
	out.Status = model.StaffTraining
	out.TrainingSkill = skill
	out.TrainingDaysLeft = r.trainingDays
	return out, nil
}

// Tick applies one day to m. Working staff spend energy and drop to idle,
// unassigned, once below the minimum. Resting staff recover until full.
// Training staff count down and gain one skill level when done.
func (r *Rules) Tick(m model.StaffMember) model.StaffMember {
	out := m.Clone()
	switch m.Status {
	case model.StaffWorking:
		out.Energy = max(0, m.Energy-r.workCost)
		if out.Energy < r.minEnergy {
			out.Status = model.StaffIdle
			out.AssignedProjectID = ""
		}
	case model.StaffResting:
		out.Energy = min(MaxEnergy, m.Energy+r.restGain)
		if out.Energy >= MaxEnergy {
			out.Status = model.StaffIdle
		}
	case model.StaffTraining:
		out.TrainingDaysLeft--
		if out.TrainingDaysLeft <= 0 {
			if out.Skills == nil {
				out.Skills = map[string]int{}
			}
			out.Skills[m.TrainingSkill]++
			out.Status = model.StaffIdle
			out.TrainingSkill = ""
			out.TrainingDaysLeft = 0
		}
	}
	return out
}

// Working returns the members currently working on projectID.
func Working(members []model.StaffMember, projectID string) []model.StaffMember {
	if projectID == "" {
		return nil
	}
	var out []model.StaffMember
	for _, m := range members {
		if m.Status == model.StaffWorking && m.AssignedProjectID == projectID {
			out = append(out, m)
		}
	}
	return out
}

// Qualified reports whether m meets every skill level in required.
func Qualified(m model.StaffMember, required map[string]int) bool {
	for skill, level := range required {
		if m.Skills[skill] < level {
			return false
		}
	}
	return true
}

// Eligible splits members into those qualified for required and the ids of
// the rest, keeping the input order.
func Eligible(members []model.StaffMember, required map[string]int) (qualified []model.StaffMember, skipped []string) {
	for _, m := range members {
		if Qualified(m, required) {
			qualified = append(qualified, m)
			continue
		}
		skipped = append(skipped, m.ID)
	}
	return qualified, skipped
}
