// Package reward turns a completed project's stage metrics into its final
// score, payout, reputation and XP.
package reward

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/internal/domain/progress"
)

// Defaults for the tunable parts of the reward formulas.
const (
	DefaultXPBase          = 50
	DefaultXPPerDifficulty = 10
	DefaultReputationScale = 1000.0

	maxScore = 100.0
)

// Publisher delivers completion events to whoever books or displays them.
type Publisher interface {
	Publish(ctx context.Context, ev model.ProjectCompletedEvent) error
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithXPBase sets the XP base used for projects that carry none.
func WithXPBase(base int) Option {
	return func(r *Resolver) {
		if base >= 0 {
			r.xpBase = base
		}
	}
}

// WithXPPerDifficulty sets the XP added per difficulty level.
func WithXPPerDifficulty(xp int) Option {
	return func(r *Resolver) {
		if xp >= 0 {
			r.xpPerDifficulty = xp
		}
	}
}

// WithReputationScale sets the reputation that doubles reputation gains.
func WithReputationScale(scale float64) Option {
	return func(r *Resolver) {
		if scale > 0 {
			r.reputationScale = scale
		}
	}
}

// Resolver computes completion rewards. It never books them.
type Resolver struct {
	xpBase          int
	xpPerDifficulty int
	reputationScale float64
}

// New creates a Resolver with the default formulas.
func New(opts ...Option) *Resolver {
	r := &Resolver{
		xpBase:          DefaultXPBase,
		xpPerDifficulty: DefaultXPPerDifficulty,
		reputationScale: DefaultReputationScale,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Scores returns the project's quality and efficiency on a 0-100 scale: each
// stage's value is scaled and clamped, then averaged across stages.
func Scores(p *model.Project) (quality, efficiency float64) {
	if len(p.Stages) == 0 {
		return 0, 0
	}
	for i := range p.Stages {
		quality += normalize(progress.StageQuality(&p.Stages[i]))
		efficiency += normalize(progress.TimeEfficiency(&p.Stages[i]))
	}
	n := float64(len(p.Stages))
	return quality / n, efficiency / n
}

// Resolve computes the review of a fully completed project. reputation is the
// studio's reputation before this project is booked.
func (r *Resolver) Resolve(p *model.Project, reputation int, perks model.PerkModifiers) (model.CompletionResult, error) {
	if p == nil {
		return model.CompletionResult{}, ErrNoProject
	}
	if !p.IsComplete() {
		return model.CompletionResult{}, ErrProjectIncomplete
	}

	quality, efficiency := Scores(p)
	finalScore := math.Floor((quality + efficiency) / 2)
	fraction := finalScore / maxScore

	payout := math.Floor(float64(p.PayoutBase) * fraction * (1 + perks.ContractPayout))

	repGain := math.Floor(float64(p.RepGainBase) * fraction)
	repGain = math.Floor(repGain * (1 + float64(max(reputation, 0))/r.reputationScale))

	xpBase := p.XPBase
	if xpBase <= 0 {
		xpBase = r.xpBase
	}
	xpGain := math.Floor(float64(xpBase+max(p.Difficulty, 0)*r.xpPerDifficulty) * fraction)

	return model.CompletionResult{
		ProjectID:       p.ID,
		Title:           p.Title,
		Genre:           p.Genre,
		QualityScore:    int(math.Floor(quality)),
		EfficiencyScore: int(math.Floor(efficiency)),
		FinalScore:      int(finalScore),
		Payout:          int(payout),
		RepGain:         int(repGain),
		XPGain:          int(xpGain),
	}, nil
}

// NewEvent wraps a result in a uniquely identified completion event.
func NewEvent(res model.CompletionResult, ts time.Time) model.ProjectCompletedEvent {
	return model.ProjectCompletedEvent{
		EventID: uuid.NewString(),
		Result:  res,
		TS:      ts,
	}
}

func normalize(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(maxScore, v*maxScore))
}
