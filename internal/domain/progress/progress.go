// Package progress owns a stage's work unit history and the metrics derived
// from it.
package progress

import (
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/internal/domain/workcalc"
)

// expectedMillisPerUnit is the nominal pace of one work unit.
const expectedMillisPerUnit = 1000

// Option applies a configuration option to the Tracker.
type Option func(*Tracker)

// WithClock sets the time source used to stamp work units.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithIDSource sets the generator used for work unit ids.
func WithIDSource(next func() string) Option {
	return func(t *Tracker) {
		if next != nil {
			t.newID = next
		}
	}
}

// Tracker appends work units to stages. Callers must hold exclusive access to
// a stage while mutating it.
type Tracker struct {
	now   func() time.Time
	newID func() string
}

// New creates a Tracker stamping units with time.Now and random UUIDs.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Outcome summarizes what one recorded session did to a stage.
type Outcome struct {
	Units          []model.WorkUnit
	Creativity     int
	Technical      int
	StageCompleted bool // true only on the session that completed the stage
}

// AddWorkUnit appends a unit to the stage and updates its counters in the
// same step. Negative values are recorded as 0. The stage is marked complete
// the first time its completed units reach the requirement.
func (t *Tracker) AddWorkUnit(stage *model.ProjectStage, typ model.WorkType, value int, source model.WorkSource, sourceID string) model.WorkUnit {
	if value < 0 {
		value = 0
	}
	unit := model.WorkUnit{
		ID:        t.newID(),
		Type:      typ,
		Value:     value,
		Source:    source,
		SourceID:  sourceID,
		Timestamp: t.now(),
	}

	stage.WorkUnits = append(stage.WorkUnits, unit)
	stage.WorkUnitsCompleted += value
	switch typ {
	case model.WorkCreativity:
		stage.CreativityPoints += value
	case model.WorkTechnical:
		stage.TechnicalPoints += value
	}
	if !stage.Completed && stage.WorkUnitsCompleted >= stage.WorkUnitsRequired {
		stage.Completed = true
	}
	return unit
}

// Record logs a computed session against the stage: one unit per non-zero
// staff share and one per non-zero player share.
func (t *Tracker) Record(stage *model.ProjectStage, res workcalc.Result) Outcome {
	wasComplete := stage.Completed
	out := Outcome{}

	add := func(typ model.WorkType, value int, source model.WorkSource, sourceID string) {
		if value <= 0 {
			return
		}
		out.Units = append(out.Units, t.AddWorkUnit(stage, typ, value, source, sourceID))
		if typ == model.WorkCreativity {
			out.Creativity += value
		} else {
			out.Technical += value
		}
	}

	for _, s := range res.Staff {
		add(model.WorkCreativity, s.Creativity, model.SourceStaff, s.StaffID)
		add(model.WorkTechnical, s.Technical, model.SourceStaff, s.StaffID)
	}
	add(model.WorkCreativity, res.PlayerCreativity, model.SourcePlayer, "")
	add(model.WorkTechnical, res.PlayerTechnical, model.SourcePlayer, "")

	// A zero-requirement stage completes on its first session even when
	// nothing was produced.
	if !stage.Completed && stage.WorkUnitsCompleted >= stage.WorkUnitsRequired {
		stage.Completed = true
	}
	out.StageCompleted = !wasComplete && stage.Completed
	return out
}

// StageProgress returns completed/required capped at 1. A stage that requires
// no work counts as fully progressed.
func StageProgress(stage *model.ProjectStage) float64 {
	if stage.WorkUnitsRequired <= 0 {
		return 1
	}
	p := float64(stage.WorkUnitsCompleted) / float64(stage.WorkUnitsRequired)
	return math.Max(0, math.Min(1, p))
}

// StageQuality returns the balance-weighted quality of the stage's
// accumulated points.
func StageQuality(stage *model.ProjectStage) float64 {
	creativity := float64(max(stage.CreativityPoints, 0))
	technical := float64(max(stage.TechnicalPoints, 0))
	if creativity == 0 && technical == 0 {
		return 0
	}

	balance := math.Min(creativity, technical) / math.Max(creativity, technical)

	var base float64
	if stage.WorkUnitsRequired > 0 {
		base = (creativity + technical) / float64(stage.WorkUnitsRequired)
	} else {
		base = 1
	}
	return base * balance * stage.EffectiveQualityMultiplier()
}

// TimeEfficiency compares the span between the first and last unit with the
// nominal pace of one unit per second.
func TimeEfficiency(stage *model.ProjectStage) float64 {
	mult := stage.EffectiveTimeMultiplier()
	if len(stage.WorkUnits) <= 1 {
		return 1
	}

	first := stage.WorkUnits[0].Timestamp
	last := stage.WorkUnits[len(stage.WorkUnits)-1].Timestamp
	span := last.Sub(first).Milliseconds()
	if span <= 0 {
		return mult
	}

	expected := float64(stage.WorkUnitsRequired) * expectedMillisPerUnit
	return math.Min(1, expected/float64(span)) * mult
}

// Reset clears the stage's history and counters.
func Reset(stage *model.ProjectStage) {
	stage.WorkUnits = []model.WorkUnit{}
	stage.WorkUnitsCompleted = 0
	stage.CreativityPoints = 0
	stage.TechnicalPoints = 0
	stage.Completed = false
	stage.PendingTriggerID = ""
}
