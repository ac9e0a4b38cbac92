package model

// EquipmentBonuses are percentages granted while the equipment is owned.
// Genre maps a project genre to an extra bonus that also feeds the genre's
// studio skill on purchase.
type EquipmentBonuses struct {
	Quality    float64            `json:"quality,omitempty"`
	Creativity float64            `json:"creativity,omitempty"`
	Technical  float64            `json:"technical,omitempty"`
	Speed      float64            `json:"speed,omitempty"`
	Genre      map[string]float64 `json:"genre,omitempty"`
}

// SkillRequirement gates a purchase on a studio skill level.
type SkillRequirement struct {
	Skill string `json:"skill"`
	Level int    `json:"level"`
}

// Equipment is a piece of studio gear.
type Equipment struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	Category         string            `json:"category"`
	Price            int               `json:"price"`
	Description      string            `json:"description,omitempty"`
	Bonuses          EquipmentBonuses  `json:"bonuses"`
	SkillRequirement *SkillRequirement `json:"skill_requirement,omitempty"`
}

// Clone returns a deep copy of the equipment.
func (e Equipment) Clone() Equipment {
	c := e
	if e.Bonuses.Genre != nil {
		c.Bonuses.Genre = make(map[string]float64, len(e.Bonuses.Genre))
		for k, v := range e.Bonuses.Genre {
			c.Bonuses.Genre[k] = v
		}
	}
	if e.SkillRequirement != nil {
		r := *e.SkillRequirement
		c.SkillRequirement = &r
	}
	return c
}

// StudioSkill is the studio's experience with one genre.
type StudioSkill struct {
	Level int `json:"level"`
	XP    int `json:"xp"`
}
