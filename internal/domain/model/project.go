package model

import "time"

// WorkType is the kind of progress a work unit represents.
type WorkType string

// Work types.
const (
	WorkCreativity WorkType = "creativity"
	WorkTechnical  WorkType = "technical"
)

// WorkSource identifies who produced a work unit.
type WorkSource string

// Work sources.
const (
	SourcePlayer WorkSource = "player"
	SourceStaff  WorkSource = "staff"
)

// WorkUnit is an immutable log entry of progress made on a stage.
type WorkUnit struct {
	ID        string     `json:"id"`
	Type      WorkType   `json:"type"`
	Value     int        `json:"value"`
	Source    WorkSource `json:"source"`
	SourceID  string     `json:"source_id,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// StageBonuses are percentage bonuses applied to a stage's gains.
type StageBonuses struct {
	Creativity float64 `json:"creativity,omitempty"`
	Technical  float64 `json:"technical,omitempty"`
}

// RewardKind names what a minigame reward improves.
type RewardKind string

// Reward kinds.
const (
	RewardQuality    RewardKind = "quality"
	RewardEfficiency RewardKind = "efficiency"
	RewardSpeed      RewardKind = "speed"
	RewardXP         RewardKind = "xp"
	RewardReputation RewardKind = "reputation"
)

// IsValid reports whether k names a known reward kind.
func (k RewardKind) IsValid() bool {
	switch k {
	case RewardQuality, RewardEfficiency, RewardSpeed, RewardXP, RewardReputation:
		return true
	default:
		return false
	}
}

// Reward describes the payoff of a minigame at a perfect score.
type Reward struct {
	Kind  RewardKind `json:"kind"`
	Value int        `json:"value"`
}

// TriggerDefinition is a minigame opportunity registered on a stage.
type TriggerDefinition struct {
	ID            string `json:"id"`
	Kind          string `json:"kind"`
	Reason        string `json:"reason"`
	Priority      int    `json:"priority"`
	Reward        Reward `json:"reward"`
	LastTriggered *int   `json:"last_triggered,omitempty"` // day number
}

// MinigameTrigger is a fired minigame opportunity waiting for the player.
type MinigameTrigger struct {
	ID               string `json:"id"`
	DefinitionID     string `json:"definition_id"`
	Kind             string `json:"kind"`
	Reason           string `json:"reason"`
	Priority         int    `json:"priority"`
	Reward           Reward `json:"reward"`
	StageID          string `json:"stage_id"`
	Day              int    `json:"day"`
	CompletionLinked bool   `json:"completion_linked"`
}

// ProjectStage is one ordered phase of a project.
type ProjectStage struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	FocusAreas         []string            `json:"focus_areas,omitempty"`
	WorkUnitsRequired  int                 `json:"work_units_required"`
	WorkUnitsCompleted int                 `json:"work_units_completed"`
	CreativityPoints   int                 `json:"creativity_points"`
	TechnicalPoints    int                 `json:"technical_points"`
	WorkUnits          []WorkUnit          `json:"work_units"`
	QualityMultiplier  float64             `json:"quality_multiplier,omitempty"` // 0 means 1
	TimeMultiplier     float64             `json:"time_multiplier,omitempty"`    // 0 means 1
	Bonuses            StageBonuses        `json:"bonuses"`
	RequiredSkills     map[string]int      `json:"required_skills,omitempty"`
	MinigameTriggerID  string              `json:"minigame_trigger_id,omitempty"`
	Triggers           []TriggerDefinition `json:"triggers,omitempty"`
	PendingTriggerID   string              `json:"pending_trigger_id,omitempty"`
	Completed          bool                `json:"completed"`
}

// EffectiveQualityMultiplier returns the quality multiplier, defaulting to 1.
func (s *ProjectStage) EffectiveQualityMultiplier() float64 {
	if s.QualityMultiplier <= 0 {
		return 1
	}
	return s.QualityMultiplier
}

// EffectiveTimeMultiplier returns the time multiplier, defaulting to 1.
func (s *ProjectStage) EffectiveTimeMultiplier() float64 {
	if s.TimeMultiplier <= 0 {
		return 1
	}
	return s.TimeMultiplier
}

// Clone returns a deep copy of the stage.
func (s ProjectStage) Clone() ProjectStage {
	c := s
	c.FocusAreas = append([]string(nil), s.FocusAreas...)
	c.WorkUnits = make([]WorkUnit, len(s.WorkUnits))
	copy(c.WorkUnits, s.WorkUnits)
	if s.RequiredSkills != nil {
		c.RequiredSkills = make(map[string]int, len(s.RequiredSkills))
		for k, v := range s.RequiredSkills {
			c.RequiredSkills[k] = v
		}
	}
	if s.Triggers != nil {
		c.Triggers = make([]TriggerDefinition, len(s.Triggers))
		for i, d := range s.Triggers {
			if d.LastTriggered != nil {
				day := *d.LastTriggered
				d.LastTriggered = &day
			}
			c.Triggers[i] = d
		}
	}
	return c
}

// Project is an accepted contract worked on stage by stage.
type Project struct {
	ID                    string         `json:"id"`
	TemplateID            string         `json:"template_id,omitempty"`
	Title                 string         `json:"title"`
	Genre                 string         `json:"genre"`
	ClientType            string         `json:"client_type,omitempty"`
	Difficulty            int            `json:"difficulty"`
	DurationDays          int            `json:"duration_days"`
	PayoutBase            int            `json:"payout_base"`
	RepGainBase           int            `json:"rep_gain_base"`
	XPBase                int            `json:"xp_base,omitempty"`
	Stages                []ProjectStage `json:"stages"`
	CurrentStageIndex     int            `json:"current_stage_index"`
	AccumulatedCreativity int            `json:"accumulated_creativity"`
	AccumulatedTechnical  int            `json:"accumulated_technical"`
	AcceptedDay           int            `json:"accepted_day"`
}

// IsComplete reports whether every stage is complete.
func (p *Project) IsComplete() bool {
	if len(p.Stages) == 0 {
		return false
	}
	for i := range p.Stages {
		if !p.Stages[i].Completed {
			return false
		}
	}
	return true
}

// CurrentStage returns the stage being worked on, or nil when the index is
// out of range.
func (p *Project) CurrentStage() *ProjectStage {
	if p.CurrentStageIndex < 0 || p.CurrentStageIndex >= len(p.Stages) {
		return nil
	}
	return &p.Stages[p.CurrentStageIndex]
}

// Clone returns a deep copy of the project.
func (p Project) Clone() Project {
	c := p
	c.Stages = make([]ProjectStage, len(p.Stages))
	for i := range p.Stages {
		c.Stages[i] = p.Stages[i].Clone()
	}
	return c
}
