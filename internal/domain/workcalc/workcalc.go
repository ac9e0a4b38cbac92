// Package workcalc converts a work session's inputs into creativity and
// technical point gains.
package workcalc

import (
	"math"
	"strings"

	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/internal/domain/player"
	"github.com/okian/tycoon/internal/domain/studio"
)

// Focus channel weights.
const (
	performanceCreativityWeight = 0.8
	layeringCreativityWeight    = 0.6
	soundCaptureTechnicalWeight = 0.8
	layeringTechnicalWeight     = 0.4

	maxFocusPercent = 100.0
	percent         = 100.0
)

// Stage name keywords that select a perk modifier.
const (
	keywordRecording = "recording"
	keywordMixing    = "mixing"
	keywordMastering = "mastering"
)

// Option applies a configuration option to the Calculator.
type Option func(*Calculator)

// WithAttributeScaling scales the player's base output by the creativity and
// technical attribute multipliers.
func WithAttributeScaling(enabled bool) Option {
	return func(c *Calculator) {
		c.attributeScaling = enabled
	}
}

// WithFocusNormalization scales allocations whose sum exceeds 100 back down
// to 100 before weighting.
func WithFocusNormalization(enabled bool) Option {
	return func(c *Calculator) {
		c.normalizeFocus = enabled
	}
}

// Input is everything a single work session depends on.
type Input struct {
	DailyWorkCapacity int
	Attributes        model.PlayerAttributes
	Focus             model.FocusAllocation
	Stage             *model.ProjectStage
	Staff             []model.StaffMember
	Genre             string
	Perks             model.PerkModifiers
	// Studio scales the player's own output only; staff are unaffected.
	Studio            studio.Boost
}

// StaffContribution is the share of a session's gains credited to one
// staff member.
type StaffContribution struct {
	StaffID    string `json:"staff_id"`
	Creativity int    `json:"creativity"`
	Technical  int    `json:"technical"`
}

// Result holds the floored gains of one work session. Player plus the sum of
// Staff always equals the totals.
type Result struct {
	CreativityGained int                 `json:"creativity_gained"`
	TechnicalGained  int                 `json:"technical_gained"`
	PlayerCreativity int                 `json:"player_creativity"`
	PlayerTechnical  int                 `json:"player_technical"`
	Staff            []StaffContribution `json:"staff,omitempty"`
}

// Calculator computes work unit gains. It holds no mutable state and is safe
// for concurrent use.
type Calculator struct {
	attributeScaling bool
	normalizeFocus   bool
}

// New creates a Calculator with the given options.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		normalizeFocus: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compute returns the creativity and technical gains for one session.
func (c *Calculator) Compute(in Input) Result {
	focus := c.sanitizeFocus(in.Focus)

	// Player base output, re-weighted by focus.
	playerCreativity := float64(in.DailyWorkCapacity * in.Attributes.CreativeIntuition)
	playerTechnical := float64(in.Attributes.TechnicalAptitude)
	if c.attributeScaling {
		playerCreativity *= player.CreativityMultiplier(in.Attributes)
		playerTechnical *= player.TechnicalMultiplier(in.Attributes)
	}
	playerCreativity *= focus.Performance/percent*performanceCreativityWeight + focus.Layering/percent*layeringCreativityWeight
	playerTechnical *= focus.SoundCapture/percent*soundCaptureTechnicalWeight + focus.Layering/percent*layeringTechnicalWeight
	playerCreativity *= (1 + in.Studio.SkillCreativity/percent) * (1 + in.Studio.GearCreativity/percent)
	playerTechnical *= (1 + in.Studio.SkillTechnical/percent) * (1 + in.Studio.GearTechnical/percent)

	creativityFactor, technicalFactor := c.factors(in)

	res := Result{}
	staffCreativityTotal, staffTechnicalTotal := 0.0, 0.0
	for i := range in.Staff {
		cr, te := staffOutput(&in.Staff[i], in.Genre)
		staffCreativityTotal += cr
		staffTechnicalTotal += te
		res.Staff = append(res.Staff, StaffContribution{
			StaffID:    in.Staff[i].ID,
			Creativity: floorNonNegative(cr * creativityFactor),
			Technical:  floorNonNegative(te * technicalFactor),
		})
	}

	res.CreativityGained = floorNonNegative((playerCreativity + staffCreativityTotal) * creativityFactor)
	res.TechnicalGained = floorNonNegative((playerTechnical + staffTechnicalTotal) * technicalFactor)

	// The player is credited with whatever the floored staff shares leave over.
	staffCreativity, staffTechnical := 0, 0
	for _, s := range res.Staff {
		staffCreativity += s.Creativity
		staffTechnical += s.Technical
	}
	res.CreativityGained = max(res.CreativityGained, staffCreativity)
	res.TechnicalGained = max(res.TechnicalGained, staffTechnical)
	res.PlayerCreativity = res.CreativityGained - staffCreativity
	res.PlayerTechnical = res.TechnicalGained - staffTechnical
	return res
}

// factors returns the combined stage and perk multipliers for each channel.
func (c *Calculator) factors(in Input) (creativity, technical float64) {
	creativity, technical = 1, 1
	if in.Stage == nil {
		return creativity, technical
	}
	creativity *= 1 + in.Stage.Bonuses.Creativity/percent
	technical *= 1 + in.Stage.Bonuses.Technical/percent

	// Zero multipliers mean "unset" and resolve to 1.
	shared := in.Stage.EffectiveQualityMultiplier() * in.Stage.EffectiveTimeMultiplier()
	shared *= PerkFactor(in.Stage.Name, in.Perks)

	return creativity * shared, technical * shared
}

// PerkFactor returns the perk multiplier that applies to a stage, chosen by
// keyword in the stage name. Stages matching no keyword get 1.
func PerkFactor(stageName string, perks model.PerkModifiers) float64 {
	name := strings.ToLower(stageName)
	switch {
	case strings.Contains(name, keywordRecording):
		return 1 + perks.RecordingQuality
	case strings.Contains(name, keywordMixing):
		return 1 + perks.MixingQuality
	case strings.Contains(name, keywordMastering):
		return 1 + perks.MasteringQuality
	default:
		return 1
	}
}

// staffOutput returns one staff member's raw creativity and technical output.
func staffOutput(s *model.StaffMember, genre string) (creativity, technical float64) {
	effectiveness := float64(s.EffectiveMood()) / percent
	creativity = float64(s.PrimaryStats.Creativity) * effectiveness
	technical = float64(s.PrimaryStats.Technical) * effectiveness
	if s.GenreAffinity != nil && genre != "" && strings.EqualFold(s.GenreAffinity.Genre, genre) {
		bonus := 1 + s.GenreAffinity.Bonus/percent
		creativity *= bonus
		technical *= bonus
	}
	return creativity, technical
}

// sanitizeFocus clamps each channel into [0,100] and, when enabled, scales
// an over-allocated focus back to a total of 100.
func (c *Calculator) sanitizeFocus(f model.FocusAllocation) model.FocusAllocation {
	f.Performance = clamp(f.Performance, 0, maxFocusPercent)
	f.SoundCapture = clamp(f.SoundCapture, 0, maxFocusPercent)
	f.Layering = clamp(f.Layering, 0, maxFocusPercent)

	sum := f.Performance + f.SoundCapture + f.Layering
	if c.normalizeFocus && sum > maxFocusPercent {
		scale := maxFocusPercent / sum
		f.Performance *= scale
		f.SoundCapture *= scale
		f.Layering *= scale
	}
	return f
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func floorNonNegative(v float64) int {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	return int(math.Floor(v))
}

// Preset allocations for SuggestedFocus.
var (
	engineeringFocus = model.FocusAllocation{Performance: 25, SoundCapture: 40, Layering: 35} //nolint:gochecknoglobals // immutable preset
	performanceFocus = model.FocusAllocation{Performance: 40, SoundCapture: 30, Layering: 30} //nolint:gochecknoglobals // immutable preset
	captureFocus     = model.FocusAllocation{Performance: 30, SoundCapture: 40, Layering: 30} //nolint:gochecknoglobals // immutable preset
	layeringFocus    = model.FocusAllocation{Performance: 30, SoundCapture: 30, Layering: 40} //nolint:gochecknoglobals // immutable preset
)

// SuggestedFocus recommends an allocation for a stage from its focus areas.
// The first matching group wins: mixing or mastering, then performance or
// vocals, then sound capture, then layering work. Anything else gets the
// default split.
func SuggestedFocus(areas []string) model.FocusAllocation {
	has := func(names ...string) bool {
		for _, a := range areas {
			for _, n := range names {
				if strings.EqualFold(a, n) {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has("mixing", "mastering"):
		return engineeringFocus
	case has("performance", "vocals"):
		return performanceFocus
	case has("soundCapture", "recording"):
		return captureFocus
	case has("layering", "arrangement", "soundDesign"):
		return layeringFocus
	default:
		return model.DefaultFocus
	}
}
