package game

import (
	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/internal/domain/player"
)

// State is the complete game state the engine transitions.
type State struct {
	Day             int                          `json:"day"`
	Money           int                          `json:"money"`
	Reputation      int                          `json:"reputation"`
	Player          model.PlayerData             `json:"player"`
	Staff           []model.StaffMember          `json:"staff"`
	ActiveProject   *model.Project               `json:"active_project,omitempty"`
	Focus           model.FocusAllocation        `json:"focus"`
	Perks           model.PerkModifiers          `json:"perks"`
	PendingMinigame *model.MinigameTrigger       `json:"pending_minigame,omitempty"`
	// QueuedMinigames wait behind PendingMinigame and are offered in order.
	QueuedMinigames []model.MinigameTrigger      `json:"queued_minigames,omitempty"`
	Equipment       []model.Equipment            `json:"equipment,omitempty"`
	// StudioSkills is keyed by genre.
	StudioSkills    map[string]model.StudioSkill `json:"studio_skills,omitempty"`
	Reviews         []model.CompletionResult     `json:"reviews"`
}

// NewState returns the state of a fresh studio on day 1.
func NewState(money int) State {
	return State{
		Day:     1,
		Money:   money,
		Player:  player.New(),
		Staff:   []model.StaffMember{},
		Focus:   model.DefaultFocus,
		Reviews: []model.CompletionResult{},
	}
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	c := s
	c.Staff = make([]model.StaffMember, len(s.Staff))
	for i := range s.Staff {
		c.Staff[i] = s.Staff[i].Clone()
	}
	if s.ActiveProject != nil {
		p := s.ActiveProject.Clone()
		c.ActiveProject = &p
	}
	if s.PendingMinigame != nil {
		m := *s.PendingMinigame
		c.PendingMinigame = &m
	}
	if s.QueuedMinigames != nil {
		c.QueuedMinigames = append([]model.MinigameTrigger(nil), s.QueuedMinigames...)
	}
	if s.Equipment != nil {
		c.Equipment = make([]model.Equipment, len(s.Equipment))
		for i := range s.Equipment {
			c.Equipment[i] = s.Equipment[i].Clone()
		}
	}
	if s.StudioSkills != nil {
		c.StudioSkills = make(map[string]model.StudioSkill, len(s.StudioSkills))
		for k, v := range s.StudioSkills {
			c.StudioSkills[k] = v
		}
	}
	c.Reviews = make([]model.CompletionResult, len(s.Reviews))
	copy(c.Reviews, s.Reviews)
	return c
}

// StaffIndex returns the index of the staff member with id, or -1.
func (s *State) StaffIndex(id string) int {
	for i := range s.Staff {
		if s.Staff[i].ID == id {
			return i
		}
	}
	return -1
}
