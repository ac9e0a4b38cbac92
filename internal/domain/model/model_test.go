package model_test

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/tycoon/internal/domain/model"
)

func TestProjectClone(t *testing.T) {
	convey.Convey("Given a project with nested stage data", t, func() {
		last := 3
		p := model.Project{
			ID: "p-1",
			Stages: []model.ProjectStage{{
				ID:             "st-1",
				FocusAreas:     []string{"performance"},
				WorkUnits:      []model.WorkUnit{{ID: "u1", Value: 2}},
				RequiredSkills: map[string]int{"mixing": 2},
				Triggers:       []model.TriggerDefinition{{ID: "t1", LastTriggered: &last}},
			}},
		}

		convey.Convey("When the clone is modified", func() {
			c := p.Clone()
			c.Stages[0].FocusAreas[0] = "layering"
			c.Stages[0].WorkUnits[0].Value = 9
			c.Stages[0].RequiredSkills["mixing"] = 5
			*c.Stages[0].Triggers[0].LastTriggered = 8
			c.Stages[0].Completed = true

			convey.Convey("Then the original is untouched", func() {
				s := p.Stages[0]
				convey.So(s.FocusAreas[0], convey.ShouldEqual, "performance")
				convey.So(s.WorkUnits[0].Value, convey.ShouldEqual, 2)
				convey.So(s.RequiredSkills["mixing"], convey.ShouldEqual, 2)
				convey.So(*s.Triggers[0].LastTriggered, convey.ShouldEqual, 3)
				convey.So(s.Completed, convey.ShouldBeFalse)
			})
		})
	})
}

func TestProjectProgress(t *testing.T) {
	convey.Convey("Given a two-stage project", t, func() {
		p := model.Project{Stages: []model.ProjectStage{{ID: "a"}, {ID: "b"}}}

		convey.Convey("Then it is complete only when every stage is", func() {
			convey.So(p.IsComplete(), convey.ShouldBeFalse)
			p.Stages[0].Completed = true
			convey.So(p.IsComplete(), convey.ShouldBeFalse)
			p.Stages[1].Completed = true
			convey.So(p.IsComplete(), convey.ShouldBeTrue)
			convey.So((&model.Project{}).IsComplete(), convey.ShouldBeFalse)
		})

		convey.Convey("Then the current stage follows the index", func() {
			convey.So(p.CurrentStage().ID, convey.ShouldEqual, "a")
			p.CurrentStageIndex = 1
			convey.So(p.CurrentStage().ID, convey.ShouldEqual, "b")
			p.CurrentStageIndex = 2
			convey.So(p.CurrentStage(), convey.ShouldBeNil)
		})
	})
}

func TestDefaults(t *testing.T) {
	convey.Convey("Given zero-valued optional fields", t, func() {
		var s model.ProjectStage
		var m model.StaffMember

		convey.Convey("Then the documented defaults apply", func() {
			convey.So(s.EffectiveQualityMultiplier(), convey.ShouldEqual, 1)
			convey.So(s.EffectiveTimeMultiplier(), convey.ShouldEqual, 1)
			convey.So(m.EffectiveMood(), convey.ShouldEqual, model.DefaultMood)

			s.QualityMultiplier = 1.2
			m.Mood = 80
			convey.So(s.EffectiveQualityMultiplier(), convey.ShouldEqual, 1.2)
			convey.So(m.EffectiveMood(), convey.ShouldEqual, 80)
		})
	})
}

func TestStaffClone(t *testing.T) {
	convey.Convey("Given a staff member with skills and an affinity", t, func() {
		m := model.StaffMember{
			ID:            "s1",
			Skills:        map[string]int{"mixing": 1},
			GenreAffinity: &model.GenreAffinity{Genre: "rock", Bonus: 10},
		}
		c := m.Clone()
		c.Skills["mixing"] = 4
		c.GenreAffinity.Bonus = 50

		convey.So(m.Skills["mixing"], convey.ShouldEqual, 1)
		convey.So(m.GenreAffinity.Bonus, convey.ShouldEqual, 10)
	})
}

func TestEnums(t *testing.T) {
	for _, k := range []model.RewardKind{"quality", "efficiency", "speed", "xp", "reputation"} {
		if !k.IsValid() {
			t.Errorf("%q should be valid", k)
		}
	}
	if model.RewardKind("gold").IsValid() {
		t.Error("unknown reward kind accepted")
	}
	if !model.AttributeBusinessAcumen.IsValid() || model.Attribute("luck").IsValid() {
		t.Error("attribute validation is wrong")
	}
}
