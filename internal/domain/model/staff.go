package model

// StaffStatus is the assignment state of a staff member.
type StaffStatus string

// Staff statuses.
const (
	StaffIdle     StaffStatus = "idle"
	StaffWorking  StaffStatus = "working"
	StaffTraining StaffStatus = "training"
	StaffResting  StaffStatus = "resting"
)

// DefaultMood is the mood assumed for staff whose mood was never set.
const DefaultMood = 50

// PrimaryStats are a staff member's core output stats.
type PrimaryStats struct {
	Creativity int `json:"creativity"`
	Technical  int `json:"technical"`
	Speed      int `json:"speed"`
}

// GenreAffinity boosts a staff member's output on projects of one genre.
type GenreAffinity struct {
	Genre string  `json:"genre"`
	Bonus float64 `json:"bonus"` // percent
}

// StaffMember is a hired studio employee.
type StaffMember struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	Role              string         `json:"role"`
	PrimaryStats      PrimaryStats   `json:"primary_stats"`
	Energy            int            `json:"energy"`
	Mood              int            `json:"mood,omitempty"` // 0 means unset
	GenreAffinity     *GenreAffinity `json:"genre_affinity,omitempty"`
	Status            StaffStatus    `json:"status"`
	AssignedProjectID string         `json:"assigned_project_id,omitempty"`
	Skills            map[string]int `json:"skills,omitempty"`
	TrainingSkill     string         `json:"training_skill,omitempty"`
	TrainingDaysLeft  int            `json:"training_days_left,omitempty"`
	Salary            int            `json:"salary"`
}

// EffectiveMood returns the staff member's mood, defaulting to DefaultMood.
func (s *StaffMember) EffectiveMood() int {
	if s.Mood <= 0 {
		return DefaultMood
	}
	return s.Mood
}

// Clone returns a deep copy of the staff member.
func (s StaffMember) Clone() StaffMember {
	c := s
	if s.GenreAffinity != nil {
		ga := *s.GenreAffinity
		c.GenreAffinity = &ga
	}
	if s.Skills != nil {
		c.Skills = make(map[string]int, len(s.Skills))
		for k, v := range s.Skills {
			c.Skills[k] = v
		}
	}
	return c
}
