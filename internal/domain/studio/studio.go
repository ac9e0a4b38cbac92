// Package studio derives the bonuses the studio earns from its genre skills
// and owned equipment, and the rules for buying equipment.
package studio

import (
	"fmt"
	"math"

	"github.com/okian/tycoon/internal/domain/model"
)

// Per-level skill bonuses, in percent.
const (
	creativityPerLevel = 2.0
	technicalPerLevel  = 1.5
	qualityPerLevel    = 1.0

	xpToNextBase   = 100.0
	xpToNextGrowth = 1.5

	// genreXPPerBonus converts an equipment genre bonus into skill XP.
	genreXPPerBonus = 5
)

// BonusKind selects which studio skill bonus to read.
type BonusKind string

// Skill bonus kinds.
const (
	BonusCreativity BonusKind = "creativity"
	BonusTechnical  BonusKind = "technical"
	BonusQuality    BonusKind = "quality"
)

// SkillBonus returns the percentage bonus a skill level grants.
func SkillBonus(level int, kind BonusKind) float64 {
	l := float64(max(0, level))
	switch kind {
	case BonusCreativity:
		return l * creativityPerLevel
	case BonusTechnical:
		return l * technicalPerLevel
	case BonusQuality:
		return l * qualityPerLevel
	default:
		return 0
	}
}

// Bonuses are summed equipment percentages. Genre is the sum of the
// genre-specific bonuses for one genre.
type Bonuses struct {
	Quality    float64 `json:"quality"`
	Creativity float64 `json:"creativity"`
	Technical  float64 `json:"technical"`
	Speed      float64 `json:"speed"`
	Genre      float64 `json:"genre"`
}

// EquipmentBonuses sums the bonuses of owned equipment for genre.
func EquipmentBonuses(owned []model.Equipment, genre string) Bonuses {
	var b Bonuses
	for _, e := range owned {
		b.Quality += e.Bonuses.Quality
		b.Creativity += e.Bonuses.Creativity
		b.Technical += e.Bonuses.Technical
		b.Speed += e.Bonuses.Speed
		if genre != "" {
			b.Genre += e.Bonuses.Genre[genre]
		}
	}
	return b
}

// Boost is the pair of percentages applied to the player's own output on a
// project of one genre.
type Boost struct {
	SkillCreativity float64 `json:"skill_creativity"`
	SkillTechnical  float64 `json:"skill_technical"`
	GearCreativity  float64 `json:"gear_creativity"`
	GearTechnical   float64 `json:"gear_technical"`
}

// BoostFor returns the skill and equipment boost for a project genre.
func BoostFor(skills map[string]model.StudioSkill, owned []model.Equipment, genre string) Boost {
	level := skills[genre].Level
	gear := EquipmentBonuses(owned, genre)
	return Boost{
		SkillCreativity: SkillBonus(level, BonusCreativity),
		SkillTechnical:  SkillBonus(level, BonusTechnical),
		GearCreativity:  gear.Creativity,
		GearTechnical:   gear.Technical,
	}
}

// CanPurchase checks funds, ownership and the skill requirement, in that order.
func CanPurchase(money int, owned []model.Equipment, skills map[string]model.StudioSkill, e model.Equipment) error {
	if money < e.Price {
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientFunds, e.Price, money)
	}
	for _, o := range owned {
		if o.ID == e.ID {
			return fmt.Errorf("%w: %s", ErrAlreadyOwned, e.ID)
		}
	}
	if r := e.SkillRequirement; r != nil && skills[r.Skill].Level < r.Level {
		return fmt.Errorf("%w: %s requires %s level %d", ErrSkillTooLow, e.ID, r.Skill, r.Level)
	}
	return nil
}

// XPToNext returns the XP a skill at level needs to reach the next level.
func XPToNext(level int) int {
	return int(math.Floor(xpToNextBase * math.Pow(xpToNextGrowth, float64(max(0, level)))))
}

// AddXP returns a copy of skills with xp added to name, levelling it up as
// often as the XP allows, and the number of levels gained.
func AddXP(skills map[string]model.StudioSkill, name string, xp int) (map[string]model.StudioSkill, int) {
	out := make(map[string]model.StudioSkill, len(skills)+1)
	for k, v := range skills {
		out[k] = v
	}
	if name == "" || xp <= 0 {
		return out, 0
	}
	s := out[name]
	s.XP += xp
	gained := 0
	for need := XPToNext(s.Level); s.XP >= need; need = XPToNext(s.Level) {
		s.XP -= need
		s.Level++
		gained++
	}
	out[name] = s
	return out, gained
}

// PurchaseXP returns the skill XP granted by buying e: five per point of
// each genre bonus.
func PurchaseXP(e model.Equipment) map[string]int {
	if len(e.Bonuses.Genre) == 0 {
		return nil
	}
	out := make(map[string]int, len(e.Bonuses.Genre))
	for genre, bonus := range e.Bonuses.Genre {
		if xp := int(math.Floor(bonus * genreXPPerBonus)); xp > 0 {
			out[genre] = xp
		}
	}
	return out
}
