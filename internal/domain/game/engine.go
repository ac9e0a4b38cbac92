// Package game implements the studio as a transition function from a state
// and an action to the next state. The work and reward pipeline packages are
// its pure helpers.
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/internal/domain/player"
	"github.com/okian/tycoon/internal/domain/progress"
	"github.com/okian/tycoon/internal/domain/reward"
	"github.com/okian/tycoon/internal/domain/staff"
	"github.com/okian/tycoon/internal/domain/studio"
	"github.com/okian/tycoon/internal/domain/trigger"
	"github.com/okian/tycoon/internal/domain/workcalc"
)

const (
	defaultReviewHistory = 50
	hiringCostDays       = 3
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithCalculator sets the work unit calculator.
func WithCalculator(c *workcalc.Calculator) Option {
	return func(e *Engine) {
		if c != nil {
			e.calc = c
		}
	}
}

// WithTracker sets the stage progress tracker.
func WithTracker(t *progress.Tracker) Option {
	return func(e *Engine) {
		if t != nil {
			e.tracker = t
		}
	}
}

// WithEvaluator sets the minigame trigger evaluator.
func WithEvaluator(ev *trigger.Evaluator) Option {
	return func(e *Engine) {
		if ev != nil {
			e.triggers = ev
		}
	}
}

// WithResolver sets the completion reward resolver.
func WithResolver(r *reward.Resolver) Option {
	return func(e *Engine) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithStaffRules sets the staff energy and assignment rules.
func WithStaffRules(r *staff.Rules) Option {
	return func(e *Engine) {
		if r != nil {
			e.staff = r
		}
	}
}

// WithReviewHistory caps how many completed reviews the state keeps.
func WithReviewHistory(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.reviewHistory = n
		}
	}
}

// Outcome describes what an action did beyond the new state.
type Outcome struct {
	Action         string                  `json:"action"`
	Work           *workcalc.Result        `json:"work,omitempty"`
	Units          []model.WorkUnit        `json:"units,omitempty"`
	StageCompleted string                  `json:"stage_completed,omitempty"`
	StageAdvanced  bool                    `json:"stage_advanced,omitempty"`
	Trigger        *model.MinigameTrigger  `json:"trigger,omitempty"`
	Reward         *trigger.Applied        `json:"reward,omitempty"`
	Completion     *model.CompletionResult `json:"completion,omitempty"`
	LevelsGained   int                     `json:"levels_gained,omitempty"`
	StaffReleased  []string                `json:"staff_released,omitempty"`
	// StaffSkipped lists assigned staff who sat out a session for lack of
	// the stage's required skills.
	StaffSkipped   []string                `json:"staff_skipped,omitempty"`
	// SuggestedFocus is set whenever a new stage becomes current.
	SuggestedFocus *model.FocusAllocation  `json:"suggested_focus,omitempty"`
	// SkillXP is the studio skill XP granted, by genre.
	SkillXP        map[string]int          `json:"skill_xp,omitempty"`
}

// Engine applies actions. It holds only immutable helpers and is safe for
// concurrent use; callers serialize actions on a given state.
type Engine struct {
	calc          *workcalc.Calculator
	tracker       *progress.Tracker
	triggers      *trigger.Evaluator
	resolver      *reward.Resolver
	staff         *staff.Rules
	reviewHistory int
}

// NewEngine creates an Engine with default helpers.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		calc:          workcalc.New(),
		tracker:       progress.New(),
		triggers:      trigger.New(),
		resolver:      reward.New(),
		staff:         staff.New(),
		reviewHistory: defaultReviewHistory,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply returns the state that follows s under a. s is never modified; on
// error s is returned unchanged.
func (e *Engine) Apply(s State, a Action) (State, Outcome, error) {
	if a == nil {
		return s, Outcome{}, ErrUnknownAction
	}
	next := s.Clone()
	out := Outcome{Action: a.Name()}

	var err error
	switch act := a.(type) {
	case AcceptProject:
		err = e.acceptProject(&next, act)
		if err == nil {
			out.SuggestedFocus = suggestFocus(next.ActiveProject)
		}
	case SetFocus:
		next.Focus = act.Focus
	case SetPerks:
		next.Perks = act.Perks
	case HireStaff:
		err = e.hireStaff(&next, act)
	case AssignStaff:
		err = e.withStaff(&next, act.StaffID, func(m model.StaffMember) (model.StaffMember, error) {
			if next.ActiveProject == nil {
				return m, ErrNoActiveProject
			}
			return e.staff.Assign(m, next.ActiveProject.ID)
		})
	case UnassignStaff:
		err = e.withStaff(&next, act.StaffID, e.staff.Unassign)
	case RestStaff:
		err = e.withStaff(&next, act.StaffID, e.staff.Rest)
	case TrainStaff:
		err = e.withStaff(&next, act.StaffID, func(m model.StaffMember) (model.StaffMember, error) {
			return e.staff.StartTraining(m, act.Skill, next.Player.Level)
		})
	case SpendPerkPoint:
		next.Player, err = player.SpendPerkPoint(next.Player, act.Attribute)
	case WorkSession:
		err = e.workSession(&next, &out)
	case CompleteMinigame:
		err = e.completeMinigame(&next, act, &out)
	case AdvanceDay:
		e.advanceDay(&next, &out)
	case PurchaseEquipment:
		err = e.purchaseEquipment(&next, act, &out)
	default:
		err = fmt.Errorf("%w: %T", ErrUnknownAction, a)
	}
	if err != nil {
		return s, Outcome{}, err
	}
	return next, out, nil
}

func (e *Engine) acceptProject(s *State, act AcceptProject) error {
	if s.ActiveProject != nil {
		return ErrProjectInProgress
	}
	if len(act.Project.Stages) == 0 {
		return fmt.Errorf("%w: no stages", ErrInvalidProject)
	}
	p := act.Project.Clone()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CurrentStageIndex = 0
	p.AcceptedDay = s.Day
	s.ActiveProject = &p
	return nil
}

func (e *Engine) hireStaff(s *State, act HireStaff) error {
	m := act.Member.Clone()
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if s.StaffIndex(m.ID) >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateStaff, m.ID)
	}
	cost := m.Salary * hiringCostDays
	if s.Money < cost {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, cost, s.Money)
	}
	if m.Energy <= 0 {
		m.Energy = staff.MaxEnergy
	}
	m.Status = model.StaffIdle
	m.AssignedProjectID = ""
	s.Money -= cost
	s.Staff = append(s.Staff, m)
	return nil
}

func (e *Engine) withStaff(s *State, id string, fn func(model.StaffMember) (model.StaffMember, error)) error {
	i := s.StaffIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrStaffNotFound, id)
	}
	m, err := fn(s.Staff[i])
	if err != nil {
		return err
	}
	s.Staff[i] = m
	return nil
}

// workSession runs the pipeline once on the current stage: compute gains,
// record them, offer a minigame, advance the stage and settle a finished
// project.
func (e *Engine) workSession(s *State, out *Outcome) error {
	p := s.ActiveProject
	if p == nil {
		return ErrNoActiveProject
	}
	stage := p.CurrentStage()
	if stage == nil {
		return fmt.Errorf("%w: stage index %d out of range", ErrInvalidProject, p.CurrentStageIndex)
	}

	crew, skipped := staff.Eligible(staff.Working(s.Staff, p.ID), stage.RequiredSkills)
	out.StaffSkipped = skipped

	res := e.calc.Compute(workcalc.Input{
		DailyWorkCapacity: s.Player.DailyWorkCapacity,
		Attributes:        s.Player.Attributes,
		Focus:             s.Focus,
		Stage:             stage,
		Staff:             crew,
		Genre:             p.Genre,
		Perks:             s.Perks,
		Studio:            studio.BoostFor(s.StudioSkills, s.Equipment, p.Genre),
	})
	out.Work = &res

	session := e.tracker.Record(stage, res)
	out.Units = session.Units
	p.AccumulatedCreativity += session.Creativity
	p.AccumulatedTechnical += session.Technical

	// A completion-linked minigame is never dropped: it queues behind
	// whatever is already pending. Random offers wait for a free slot.
	completionLinked := session.StageCompleted && stage.MinigameTriggerID != ""
	if s.PendingMinigame == nil || completionLinked {
		if fired := e.triggers.Evaluate(stage, s.Day, session.StageCompleted); fired != nil {
			if s.PendingMinigame == nil {
				s.PendingMinigame = fired
			} else {
				s.QueuedMinigames = append(s.QueuedMinigames, *fired)
			}
			out.Trigger = fired
		}
	}

	if session.StageCompleted {
		out.StageCompleted = stage.ID
		out.StageAdvanced = advanceStage(p)
		if out.StageAdvanced {
			out.SuggestedFocus = suggestFocus(p)
		}
	}
	return e.settle(s, out)
}

// advanceStage moves the project past completed stages. It reports whether
// the index moved.
func advanceStage(p *model.Project) bool {
	moved := false
	for p.CurrentStageIndex < len(p.Stages)-1 && p.Stages[p.CurrentStageIndex].Completed {
		p.CurrentStageIndex++
		moved = true
	}
	return moved
}

// settle resolves the active project once every stage is complete and no
// minigame on it is still waiting to adjust its score.
func (e *Engine) settle(s *State, out *Outcome) error {
	p := s.ActiveProject
	if p == nil || !p.IsComplete() {
		return nil
	}
	if s.PendingMinigame != nil && stageByID(p, s.PendingMinigame.StageID) != nil {
		return nil
	}
	for _, q := range s.QueuedMinigames {
		if stageByID(p, q.StageID) != nil {
			return nil
		}
	}

	res, err := e.resolver.Resolve(p, s.Reputation, s.Perks)
	if err != nil {
		return err
	}
	res.Day = s.Day

	s.Money += res.Payout
	s.Reputation += res.RepGain
	s.Player, out.LevelsGained = player.GrantXP(s.Player, res.XPGain)
	if p.Genre != "" && res.XPGain > 0 {
		s.StudioSkills, _ = studio.AddXP(s.StudioSkills, p.Genre, res.XPGain)
		out.SkillXP = map[string]int{p.Genre: res.XPGain}
	}

	for i := range s.Staff {
		if s.Staff[i].AssignedProjectID != p.ID {
			continue
		}
		if m, err := e.staff.Unassign(s.Staff[i]); err == nil {
			s.Staff[i] = m
			out.StaffReleased = append(out.StaffReleased, m.ID)
		}
	}

	s.Reviews = append(s.Reviews, res)
	if over := len(s.Reviews) - e.reviewHistory; over > 0 {
		s.Reviews = append([]model.CompletionResult(nil), s.Reviews[over:]...)
	}
	s.ActiveProject = nil
	out.Completion = &res
	return nil
}

func (e *Engine) completeMinigame(s *State, act CompleteMinigame, out *Outcome) error {
	pending := s.PendingMinigame
	if pending == nil || pending.ID != act.TriggerID {
		return fmt.Errorf("%w: %s", ErrNoPendingMinigame, act.TriggerID)
	}
	s.PendingMinigame = nil
	e.promoteQueued(s, out)

	p := s.ActiveProject
	if p == nil {
		return nil
	}
	stage := stageByID(p, pending.StageID)
	if stage == nil {
		return nil
	}
	_ = trigger.Consume(stage, pending.ID)
	if next := s.PendingMinigame; next != nil && next.StageID == stage.ID {
		trigger.Claim(stage, next.ID)
	}

	applied, err := trigger.ApplyReward(stage, pending.Reward, act.Score)
	if err != nil {
		return err
	}
	out.Reward = &applied

	if target := p.CurrentStage(); applied.SpeedUnits > 0 && target != nil {
		wasComplete := target.Completed
		creativity := applied.SpeedUnits / 2
		technical := applied.SpeedUnits - creativity
		for _, u := range []struct {
			typ   model.WorkType
			value int
		}{{model.WorkCreativity, creativity}, {model.WorkTechnical, technical}} {
			if u.value == 0 {
				continue
			}
			out.Units = append(out.Units, e.tracker.AddWorkUnit(target, u.typ, u.value, model.SourcePlayer, ""))
		}
		p.AccumulatedCreativity += creativity
		p.AccumulatedTechnical += technical
		if !wasComplete && target.Completed {
			out.StageCompleted = target.ID
			out.StageAdvanced = advanceStage(p)
			if out.StageAdvanced {
				out.SuggestedFocus = suggestFocus(p)
			}
		}
	}
	if applied.XP > 0 {
		s.Player, out.LevelsGained = player.GrantXP(s.Player, applied.XP)
	}
	s.Reputation += applied.Reputation

	return e.settle(s, out)
}

// promoteQueued moves the head of the minigame queue into the pending slot
// and reports it as the offered trigger.
func (e *Engine) promoteQueued(s *State, out *Outcome) {
	if s.PendingMinigame != nil || len(s.QueuedMinigames) == 0 {
		return
	}
	next := s.QueuedMinigames[0]
	s.QueuedMinigames = append([]model.MinigameTrigger(nil), s.QueuedMinigames[1:]...)
	if len(s.QueuedMinigames) == 0 {
		s.QueuedMinigames = nil
	}
	s.PendingMinigame = &next
	out.Trigger = &next
	if s.ActiveProject != nil {
		trigger.Claim(stageByID(s.ActiveProject, next.StageID), next.ID)
	}
}

func (e *Engine) advanceDay(s *State, out *Outcome) {
	s.Day++
	for i := range s.Staff {
		before := s.Staff[i]
		s.Staff[i] = e.staff.Tick(before)
		s.Money -= before.Salary
		if before.AssignedProjectID != "" && s.Staff[i].AssignedProjectID == "" {
			out.StaffReleased = append(out.StaffReleased, before.ID)
		}
	}
}

func (e *Engine) purchaseEquipment(s *State, act PurchaseEquipment, out *Outcome) error {
	eq := act.Equipment.Clone()
	if eq.ID == "" {
		return fmt.Errorf("%w: equipment without id", ErrInvalidEquipment)
	}
	if err := studio.CanPurchase(s.Money, s.Equipment, s.StudioSkills, eq); err != nil {
		if errors.Is(err, studio.ErrInsufficientFunds) {
			return fmt.Errorf("%w: %w", ErrInsufficientFunds, err)
		}
		return err
	}
	s.Money -= eq.Price
	s.Equipment = append(s.Equipment, eq)
	for genre, xp := range studio.PurchaseXP(eq) {
		s.StudioSkills, _ = studio.AddXP(s.StudioSkills, genre, xp)
		if out.SkillXP == nil {
			out.SkillXP = map[string]int{}
		}
		out.SkillXP[genre] = xp
	}
	return nil
}

func suggestFocus(p *model.Project) *model.FocusAllocation {
	if p == nil {
		return nil
	}
	stage := p.CurrentStage()
	if stage == nil {
		return nil
	}
	f := workcalc.SuggestedFocus(stage.FocusAreas)
	return &f
}

func stageByID(p *model.Project, id string) *model.ProjectStage {
	for i := range p.Stages {
		if p.Stages[i].ID == id {
			return &p.Stages[i]
		}
	}
	return nil
}
