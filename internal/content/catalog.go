// Package content loads the project template and equipment catalog.
package content

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"
	"gopkg.in/yaml.v3"

	"github.com/okian/tycoon/internal/domain/model"
)

// DefaultTemplates is the catalog shipped with the binary.
//
//go:embed templates.yaml
var DefaultTemplates []byte

const (
	genrePlaceholder = "{genre}"
	maxDifficulty    = 10
)

// RewardTemplate describes a minigame reward.
type RewardTemplate struct {
	Kind  string `yaml:"kind" json:"kind"`
	Value int    `yaml:"value" json:"value"`
}

// TriggerTemplate describes a minigame opportunity on a stage.
type TriggerTemplate struct {
	ID       string         `yaml:"id" json:"id"`
	Kind     string         `yaml:"kind" json:"kind"`
	Reason   string         `yaml:"reason" json:"reason"`
	Priority int            `yaml:"priority" json:"priority"`
	Reward   RewardTemplate `yaml:"reward" json:"reward"`
}

// StageTemplate describes one stage of a project template.
type StageTemplate struct {
	Name           string            `yaml:"name" json:"name"`
	FocusAreas     []string          `yaml:"focus_areas" json:"focus_areas,omitempty"`
	WorkUnits      int               `yaml:"work_units" json:"work_units"`
	RequiredSkills map[string]int    `yaml:"required_skills" json:"required_skills,omitempty"`
	Bonuses        BonusTemplate     `yaml:"bonuses" json:"bonuses"`
	Minigame       string            `yaml:"minigame" json:"minigame,omitempty"`
	Triggers       []TriggerTemplate `yaml:"triggers" json:"triggers,omitempty"`
}

// BonusTemplate holds percentage bonuses for a stage.
type BonusTemplate struct {
	Creativity float64 `yaml:"creativity" json:"creativity,omitempty"`
	Technical  float64 `yaml:"technical" json:"technical,omitempty"`
}

// Template is a contract the studio can accept.
type Template struct {
	ID           string          `yaml:"id" json:"id"`
	TitlePattern string          `yaml:"title_pattern" json:"title_pattern"`
	Genre        string          `yaml:"genre" json:"genre"`
	ClientType   string          `yaml:"client_type" json:"client_type"`
	Era          string          `yaml:"era" json:"era,omitempty"`
	Difficulty   int             `yaml:"difficulty" json:"difficulty"`
	DurationDays int             `yaml:"duration_days" json:"duration_days"`
	PayoutBase   int             `yaml:"payout_base" json:"payout_base"`
	RepGainBase  int             `yaml:"rep_gain_base" json:"rep_gain_base"`
	XPBase       int             `yaml:"xp_base" json:"xp_base,omitempty"`
	Stages       []StageTemplate `yaml:"stages" json:"stages"`
}

// Title renders the template's title for its genre.
func (t Template) Title() string {
	if t.TitlePattern == "" {
		return t.ID
	}
	return strings.ReplaceAll(t.TitlePattern, genrePlaceholder, t.Genre)
}

// Validate checks that the template can produce a workable project.
func (t Template) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidTemplate)
	}
	if len(t.Stages) == 0 {
		return fmt.Errorf("%w: %s has no stages", ErrInvalidTemplate, t.ID)
	}
	if t.PayoutBase < 0 || t.RepGainBase < 0 || t.XPBase < 0 {
		return fmt.Errorf("%w: %s has negative rewards", ErrInvalidTemplate, t.ID)
	}
	for i, s := range t.Stages {
		if s.Name == "" {
			return fmt.Errorf("%w: %s stage %d has no name", ErrInvalidTemplate, t.ID, i)
		}
		if s.WorkUnits < 0 {
			return fmt.Errorf("%w: %s stage %q has negative work units", ErrInvalidTemplate, t.ID, s.Name)
		}
		for _, tr := range s.Triggers {
			if tr.ID == "" || tr.Kind == "" {
				return fmt.Errorf("%w: %s stage %q has an incomplete trigger", ErrInvalidTemplate, t.ID, s.Name)
			}
			if !model.RewardKind(tr.Reward.Kind).IsValid() {
				return fmt.Errorf("%w: %s trigger %s has reward kind %q", ErrInvalidTemplate, t.ID, tr.ID, tr.Reward.Kind)
			}
		}
	}
	return nil
}

// EquipmentTemplate describes a piece of gear the studio can buy.
type EquipmentTemplate struct {
	ID               string            `yaml:"id" json:"id"`
	Name             string            `yaml:"name" json:"name"`
	Category         string            `yaml:"category" json:"category"`
	Price            int               `yaml:"price" json:"price"`
	Description      string            `yaml:"description" json:"description,omitempty"`
	Bonuses          GearBonusTemplate `yaml:"bonuses" json:"bonuses"`
	SkillRequirement *SkillRequirement `yaml:"skill_requirement" json:"skill_requirement,omitempty"`
}

// GearBonusTemplate holds an equipment's percentage bonuses.
type GearBonusTemplate struct {
	Quality    float64            `yaml:"quality" json:"quality,omitempty"`
	Creativity float64            `yaml:"creativity" json:"creativity,omitempty"`
	Technical  float64            `yaml:"technical" json:"technical,omitempty"`
	Speed      float64            `yaml:"speed" json:"speed,omitempty"`
	Genre      map[string]float64 `yaml:"genre" json:"genre,omitempty"`
}

// SkillRequirement gates a purchase on a studio skill level.
type SkillRequirement struct {
	Skill string `yaml:"skill" json:"skill"`
	Level int    `yaml:"level" json:"level"`
}

// Validate checks that the gear can be offered for sale.
func (t EquipmentTemplate) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("%w: equipment missing id", ErrInvalidTemplate)
	}
	if t.Price < 0 {
		return fmt.Errorf("%w: equipment %s has a negative price", ErrInvalidTemplate, t.ID)
	}
	if r := t.SkillRequirement; r != nil && (r.Skill == "" || r.Level < 0) {
		return fmt.Errorf("%w: equipment %s has an incomplete skill requirement", ErrInvalidTemplate, t.ID)
	}
	return nil
}

// Equipment converts the template to domain gear.
func (t EquipmentTemplate) Equipment() model.Equipment {
	e := model.Equipment{
		ID:          t.ID,
		Name:        t.Name,
		Category:    t.Category,
		Price:       t.Price,
		Description: t.Description,
		Bonuses: model.EquipmentBonuses{
			Quality:    t.Bonuses.Quality,
			Creativity: t.Bonuses.Creativity,
			Technical:  t.Bonuses.Technical,
			Speed:      t.Bonuses.Speed,
			Genre:      t.Bonuses.Genre,
		},
	}
	if r := t.SkillRequirement; r != nil {
		e.SkillRequirement = &model.SkillRequirement{Skill: r.Skill, Level: r.Level}
	}
	return e.Clone()
}

// Catalog is an ordered, read-only set of templates and equipment.
type Catalog struct {
	templates   []Template
	byID        map[string]int
	equipment   []EquipmentTemplate
	equipmentID map[string]int
}

type catalogFile struct {
	Templates []Template          `yaml:"templates"`
	Equipment []EquipmentTemplate `yaml:"equipment"`
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyCatalog
	}
	var f catalogFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("content: decode catalog: %w", err)
	}
	if len(f.Templates) == 0 {
		return nil, ErrEmptyCatalog
	}

	c := &Catalog{byID: make(map[string]int, len(f.Templates))}
	for _, t := range f.Templates {
		if err := t.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[t.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidTemplate, t.ID)
		}
		c.byID[t.ID] = len(c.templates)
		c.templates = append(c.templates, t)
	}

	c.equipmentID = make(map[string]int, len(f.Equipment))
	for _, e := range f.Equipment {
		if err := e.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.equipmentID[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate equipment id %s", ErrInvalidTemplate, e.ID)
		}
		c.equipmentID[e.ID] = len(c.equipment)
		c.equipment = append(c.equipment, e)
	}
	return c, nil
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	return Parse(DefaultTemplates)
}

// Load reads a catalog file, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("content: %s: %w", path, err)
	}
	return c, nil
}

// Get returns the template with id.
func (c *Catalog) Get(id string) (Template, error) {
	i, ok := c.byID[id]
	if !ok {
		return Template{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	return c.templates[i], nil
}

// Equipment returns the gear for sale in catalog order.
func (c *Catalog) Equipment() []model.Equipment {
	out := make([]model.Equipment, 0, len(c.equipment))
	for _, e := range c.equipment {
		out = append(out, e.Equipment())
	}
	return out
}

// EquipmentByID returns the gear with id.
func (c *Catalog) EquipmentByID(id string) (model.Equipment, error) {
	i, ok := c.equipmentID[id]
	if !ok {
		return model.Equipment{}, fmt.Errorf("%w: %s", ErrEquipmentNotFound, id)
	}
	return c.equipment[i].Equipment(), nil
}

// List returns every template in catalog order.
func (c *Catalog) List() []Template {
	return append([]Template(nil), c.templates...)
}

// Search returns the templates whose id, title or genre fuzzily match query,
// best match first. An empty query returns the whole catalog.
func (c *Catalog) Search(query string) []Template {
	query = strings.TrimSpace(query)
	if query == "" {
		return c.List()
	}
	keys := make([]string, len(c.templates))
	for i, t := range c.templates {
		keys[i] = strings.Join([]string{t.ID, t.Title(), t.Genre, t.ClientType}, " ")
	}
	matches := fuzzy.Find(query, keys)
	out := make([]Template, 0, len(matches))
	for _, m := range matches {
		out = append(out, c.templates[m.Index])
	}
	return out
}

// ForLevel returns the templates suited to a player level: difficulty up to
// one above half the level. The easiest template is always included.
func (c *Catalog) ForLevel(level int) []Template {
	limit := min(maxDifficulty, max(1, level/2)+1)
	var out []Template
	easiest := -1
	for i, t := range c.templates {
		if t.Difficulty <= limit {
			out = append(out, t)
		}
		if easiest < 0 || t.Difficulty < c.templates[easiest].Difficulty {
			easiest = i
		}
	}
	if len(out) == 0 && easiest >= 0 {
		out = append(out, c.templates[easiest])
	}
	return out
}

// NewProject instantiates a template as a fresh project accepted on day.
func NewProject(t Template, day int) model.Project {
	p := model.Project{
		ID:           uuid.NewString(),
		TemplateID:   t.ID,
		Title:        t.Title(),
		Genre:        t.Genre,
		ClientType:   t.ClientType,
		Difficulty:   t.Difficulty,
		DurationDays: t.DurationDays,
		PayoutBase:   t.PayoutBase,
		RepGainBase:  t.RepGainBase,
		XPBase:       t.XPBase,
		AcceptedDay:  day,
		Stages:       make([]model.ProjectStage, 0, len(t.Stages)),
	}
	for i, st := range t.Stages {
		stage := model.ProjectStage{
			ID:                fmt.Sprintf("%s-stage-%d", p.ID, i+1),
			Name:              st.Name,
			FocusAreas:        append([]string(nil), st.FocusAreas...),
			WorkUnitsRequired: st.WorkUnits,
			WorkUnits:         []model.WorkUnit{},
			Bonuses:           model.StageBonuses{Creativity: st.Bonuses.Creativity, Technical: st.Bonuses.Technical},
			MinigameTriggerID: st.Minigame,
		}
		if len(st.RequiredSkills) > 0 {
			stage.RequiredSkills = make(map[string]int, len(st.RequiredSkills))
			for k, v := range st.RequiredSkills {
				stage.RequiredSkills[k] = v
			}
		}
		for _, tr := range st.Triggers {
			stage.Triggers = append(stage.Triggers, model.TriggerDefinition{
				ID:       tr.ID,
				Kind:     tr.Kind,
				Reason:   tr.Reason,
				Priority: tr.Priority,
				Reward:   model.Reward{Kind: model.RewardKind(tr.Reward.Kind), Value: tr.Reward.Value},
			})
		}
		p.Stages = append(p.Stages, stage)
	}
	return p
}
