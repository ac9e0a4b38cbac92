// Package player resolves attribute multipliers and player progression.
package player

import (
	"fmt"
	"math"

	"github.com/okian/tycoon/internal/domain/model"
)

// Progression constants.
const (
	// AttributeBonusPerLevel is the bonus each attribute level above 1 grants.
	AttributeBonusPerLevel = 0.05

	baseWorkCapacity  = 3
	xpCurveBase       = 100.0
	xpCurveGrowth     = 1.4
	xpCurveExponent   = 0.7
	earlyPerkLevelCap = 10
	latePerkLevelCap  = 25
	earlyPerkPoints   = 2
	latePerkPoints    = 1
	maxLevelUpsPerXP  = 1000
)

// Multiplier converts an attribute level into a multiplier. Levels below 1
// count as 1.
func Multiplier(level int) float64 {
	if level < 1 {
		level = 1
	}
	return 1 + float64(level-1)*AttributeBonusPerLevel
}

// CreativityMultiplier resolves the creative intuition multiplier.
func CreativityMultiplier(a model.PlayerAttributes) float64 {
	return Multiplier(a.CreativeIntuition)
}

// TechnicalMultiplier resolves the technical aptitude multiplier.
func TechnicalMultiplier(a model.PlayerAttributes) float64 {
	return Multiplier(a.TechnicalAptitude)
}

// BusinessMultiplier resolves the business acumen multiplier.
func BusinessMultiplier(a model.PlayerAttributes) float64 {
	return Multiplier(a.BusinessAcumen)
}

// FocusEffectiveness resolves the focus mastery multiplier.
func FocusEffectiveness(a model.PlayerAttributes) float64 {
	return Multiplier(a.FocusMastery)
}

// DailyWorkCapacity derives the player's daily work capacity.
func DailyWorkCapacity(a model.PlayerAttributes, level int) int {
	if level < 1 {
		level = 1
	}
	return a.FocusMastery + baseWorkCapacity + level - 1
}

// New returns a level-1 player with every attribute at 1.
func New() model.PlayerData {
	attrs := model.PlayerAttributes{
		FocusMastery:      1,
		CreativeIntuition: 1,
		TechnicalAptitude: 1,
		BusinessAcumen:    1,
	}
	return model.PlayerData{
		Level:             1,
		Attributes:        attrs,
		DailyWorkCapacity: DailyWorkCapacity(attrs, 1),
	}
}

// SpendPerkPoint raises one attribute by one level in exchange for a perk point.
func SpendPerkPoint(p model.PlayerData, attr model.Attribute) (model.PlayerData, error) {
	if !attr.IsValid() {
		return p, fmt.Errorf("%w: %q", ErrUnknownAttribute, attr)
	}
	if p.PerkPoints <= 0 {
		return p, ErrNoPerkPoints
	}

	p.PerkPoints--
	switch attr {
	case model.AttributeFocusMastery:
		p.Attributes.FocusMastery++
		p.DailyWorkCapacity = DailyWorkCapacity(p.Attributes, p.Level)
	case model.AttributeCreativeIntuition:
		p.Attributes.CreativeIntuition++
	case model.AttributeTechnicalAptitude:
		p.Attributes.TechnicalAptitude++
	case model.AttributeBusinessAcumen:
		p.Attributes.BusinessAcumen++
	}
	return p, nil
}

// XPToNextLevel returns the XP needed to advance from level.
func XPToNextLevel(level int) int {
	offset := math.Max(0, float64(level-1))
	return int(math.Floor(xpCurveBase * math.Pow(xpCurveGrowth, offset*xpCurveExponent)))
}

// perkPointsForLevel returns the perk points awarded on reaching level.
func perkPointsForLevel(level int) int {
	switch {
	case level <= earlyPerkLevelCap:
		return earlyPerkPoints
	case level <= latePerkLevelCap:
		return latePerkPoints
	default:
		return 0
	}
}

// GrantXP adds xp and performs as many level-ups as it pays for. It returns
// the updated player and the number of levels gained.
func GrantXP(p model.PlayerData, xp int) (model.PlayerData, int) {
	if xp <= 0 {
		return p, 0
	}
	if p.Level < 1 {
		p.Level = 1
	}
	p.XP += xp

	gained := 0
	for p.XP >= XPToNextLevel(p.Level) && gained < maxLevelUpsPerXP {
		p.XP -= XPToNextLevel(p.Level)
		p.Level++
		p.PerkPoints += perkPointsForLevel(p.Level)
		gained++
	}
	if gained > 0 {
		p.DailyWorkCapacity = DailyWorkCapacity(p.Attributes, p.Level)
	}
	return p, gained
}
