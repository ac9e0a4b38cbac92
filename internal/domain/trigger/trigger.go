// Package trigger decides when a stage offers a bonus minigame and applies
// the minigame's reward.
package trigger

import (
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/google/uuid"

	"github.com/okian/tycoon/internal/domain/model"
)

const (
	defaultCooldownDays = 3
	defaultFireChance   = 1.0
	defaultRandomSeed   = 42
	maxScore            = 100.0
	percent             = 100.0
)

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithRand sets the random source used for selection. The Evaluator
// serializes access to it.
func WithRand(rng *rand.Rand) Option {
	return func(e *Evaluator) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithSeed seeds a private random source.
func WithSeed(seed int64) Option {
	return func(e *Evaluator) {
		e.rng = rand.New(rand.NewSource(seed)) //nolint:gosec // gameplay randomness
	}
}

// WithCooldownDays sets how many days must pass before a definition fires again.
func WithCooldownDays(days int) Option {
	return func(e *Evaluator) {
		if days >= 0 {
			e.cooldownDays = days
		}
	}
}

// WithFireChance sets the probability that an eligible evaluation fires.
func WithFireChance(p float64) Option {
	return func(e *Evaluator) {
		if p >= 0 && p <= 1 {
			e.fireChance = p
		}
	}
}

// WithCatalog replaces the completion-linked definitions looked up by kind.
func WithCatalog(defs []model.TriggerDefinition) Option {
	return func(e *Evaluator) {
		e.catalog = make(map[string]model.TriggerDefinition, len(defs))
		for _, d := range defs {
			e.catalog[d.ID] = d
		}
	}
}

// WithIDSource sets the generator for fired trigger ids.
func WithIDSource(next func() string) Option {
	return func(e *Evaluator) {
		if next != nil {
			e.newID = next
		}
	}
}

// Evaluator fires at most one minigame per evaluation.
type Evaluator struct {
	mu           sync.Mutex
	rng          *rand.Rand
	cooldownDays int
	fireChance   float64
	catalog      map[string]model.TriggerDefinition
	newID        func() string
}

// New creates an Evaluator with a seeded random source and the default catalog.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		rng:          rand.New(rand.NewSource(defaultRandomSeed)), //nolint:gosec // gameplay randomness
		cooldownDays: defaultCooldownDays,
		fireChance:   defaultFireChance,
		newID:        uuid.NewString,
	}
	WithCatalog(DefaultCatalog())(e)
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eligible reports whether a definition has cooled down on day.
func (e *Evaluator) Eligible(def *model.TriggerDefinition, day int) bool {
	return def.LastTriggered == nil || day-*def.LastTriggered > e.cooldownDays
}

// Evaluate returns the trigger fired for the stage on day, or nil. When the
// stage has just completed and registers a completion-linked minigame, that
// minigame fires regardless of cooldown or of a random trigger still waiting
// on the stage. Otherwise a stage still waiting on a fired trigger never
// fires another.
func (e *Evaluator) Evaluate(stage *model.ProjectStage, day int, justCompleted bool) *model.MinigameTrigger {
	if stage == nil {
		return nil
	}

	if justCompleted && stage.MinigameTriggerID != "" {
		def := e.completionDefinition(stage)
		return e.fire(stage, def, day, true)
	}
	if stage.PendingTriggerID != "" {
		return nil
	}

	eligible := make([]*model.TriggerDefinition, 0, len(stage.Triggers))
	for i := range stage.Triggers {
		if e.Eligible(&stage.Triggers[i], day) {
			eligible = append(eligible, &stage.Triggers[i])
		}
	}
	if len(eligible) == 0 {
		return nil
	}

	e.mu.Lock()
	roll := e.rng.Float64()
	pick := e.rng.Intn(len(eligible))
	e.mu.Unlock()

	if roll >= e.fireChance {
		return nil
	}
	return e.fire(stage, eligible[pick], day, false)
}

// completionDefinition resolves the stage's completion-linked minigame from
// its own definitions, then the catalog, then a bare definition of that kind.
func (e *Evaluator) completionDefinition(stage *model.ProjectStage) *model.TriggerDefinition {
	for i := range stage.Triggers {
		if stage.Triggers[i].ID == stage.MinigameTriggerID {
			return &stage.Triggers[i]
		}
	}
	if def, ok := e.catalog[stage.MinigameTriggerID]; ok {
		return &def
	}
	return &model.TriggerDefinition{
		ID:       stage.MinigameTriggerID,
		Kind:     stage.MinigameTriggerID,
		Reason:   fmt.Sprintf("%s complete", stage.Name),
		Priority: 1,
		Reward:   model.Reward{Kind: model.RewardQuality, Value: 10},
	}
}

func (e *Evaluator) fire(stage *model.ProjectStage, def *model.TriggerDefinition, day int, completion bool) *model.MinigameTrigger {
	fired := day
	def.LastTriggered = &fired

	t := &model.MinigameTrigger{
		ID:               e.newID(),
		DefinitionID:     def.ID,
		Kind:             def.Kind,
		Reason:           def.Reason,
		Priority:         def.Priority,
		Reward:           def.Reward,
		StageID:          stage.ID,
		Day:              day,
		CompletionLinked: completion,
	}
	Claim(stage, t.ID)
	return t
}

// Claim marks id as the stage's pending trigger unless another one already
// holds it.
func Claim(stage *model.ProjectStage, id string) {
	if stage != nil && stage.PendingTriggerID == "" {
		stage.PendingTriggerID = id
	}
}

// Consume clears the stage's pending trigger.
func Consume(stage *model.ProjectStage, id string) error {
	if stage == nil || id == "" || stage.PendingTriggerID != id {
		return ErrNotPending
	}
	stage.PendingTriggerID = ""
	return nil
}

// Applied reports the effect of a minigame reward. Stage multipliers are
// changed in place; the remaining fields are for the caller to book.
type Applied struct {
	Kind       model.RewardKind `json:"kind"`
	Amount     float64          `json:"amount"`
	SpeedUnits int              `json:"speed_units,omitempty"`
	XP         int              `json:"xp,omitempty"`
	Reputation int              `json:"reputation,omitempty"`
}

// ApplyReward scales the reward by the minigame score (0-100) and applies it.
// Quality and efficiency rewards raise the stage's multipliers by Amount
// percent; speed rewards are returned as work units to add.
func ApplyReward(stage *model.ProjectStage, reward model.Reward, score float64) (Applied, error) {
	if math.IsNaN(score) {
		score = 0
	}
	score = math.Max(0, math.Min(maxScore, score))
	amount := float64(reward.Value) * score / maxScore
	out := Applied{Kind: reward.Kind, Amount: amount}

	switch reward.Kind {
	case model.RewardQuality:
		stage.QualityMultiplier = stage.EffectiveQualityMultiplier() * (1 + amount/percent)
	case model.RewardEfficiency:
		stage.TimeMultiplier = stage.EffectiveTimeMultiplier() * (1 + amount/percent)
	case model.RewardSpeed:
		out.SpeedUnits = int(math.Floor(amount))
	case model.RewardXP:
		out.XP = int(math.Floor(amount))
	case model.RewardReputation:
		out.Reputation = int(math.Floor(amount))
	default:
		return Applied{}, fmt.Errorf("%w: %q", ErrUnknownReward, reward.Kind)
	}
	return out, nil
}
