package content_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/okian/tycoon/internal/content"
	"github.com/okian/tycoon/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultCatalog(t *testing.T) {
	Convey("Given the embedded catalog", t, func() {
		c, err := content.Default()
		So(err, ShouldBeNil)

		Convey("Then every template is listed in order", func() {
			list := c.List()
			So(len(list), ShouldBeGreaterThanOrEqualTo, 4)
			So(list[0].ID, ShouldEqual, "beginner_single_60s")
		})

		Convey("When looking up the standard album", func() {
			tpl, err := c.Get("standard_album_60s")

			Convey("Then its figures come through", func() {
				So(err, ShouldBeNil)
				So(tpl.PayoutBase, ShouldEqual, 800)
				So(tpl.RepGainBase, ShouldEqual, 8)
				So(tpl.Stages, ShouldHaveLength, 4)
				So(tpl.Title(), ShouldEqual, "Rock Album Track")
			})
		})

		Convey("When looking up an unknown id", func() {
			_, err := c.Get("nope")
			So(errors.Is(err, content.ErrTemplateNotFound), ShouldBeTrue)
		})

		Convey("When filtering for a level 1 player", func() {
			got := c.ForLevel(1)

			Convey("Then only easy templates are offered", func() {
				So(got, ShouldNotBeEmpty)
				for _, tpl := range got {
					So(tpl.Difficulty, ShouldBeLessThanOrEqualTo, 2)
				}
			})
		})
	})
}

func TestNewProject(t *testing.T) {
	Convey("Given the standard album template", t, func() {
		c, _ := content.Default()
		tpl, _ := c.Get("standard_album_60s")

		Convey("When a project is created on day 4", func() {
			p := content.NewProject(tpl, 4)

			Convey("Then it starts at the first stage with nothing done", func() {
				So(p.ID, ShouldNotBeEmpty)
				So(p.TemplateID, ShouldEqual, tpl.ID)
				So(p.AcceptedDay, ShouldEqual, 4)
				So(p.CurrentStageIndex, ShouldEqual, 0)
				So(p.IsComplete(), ShouldBeFalse)
				So(p.Stages[1].Bonuses.Creativity, ShouldEqual, 10.0)
				So(p.Stages[1].Triggers, ShouldHaveLength, 2)
				So(p.Stages[2].MinigameTriggerID, ShouldEqual, "mixing")
				So(p.Stages[0].WorkUnits, ShouldNotBeNil)
			})

			Convey("Then stage ids are unique", func() {
				seen := map[string]bool{}
				for _, s := range p.Stages {
					So(seen[s.ID], ShouldBeFalse)
					seen[s.ID] = true
				}
			})

			Convey("Then editing the project leaves the template alone", func() {
				p.Stages[0].RequiredSkills["composition"] = 99
				again, _ := c.Get("standard_album_60s")
				So(again.Stages[0].RequiredSkills["composition"], ShouldEqual, 2)
			})
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given malformed catalogs", t, func() {
		Convey("Then an empty payload is rejected", func() {
			_, err := content.Parse([]byte("  "))
			So(errors.Is(err, content.ErrEmptyCatalog), ShouldBeTrue)
		})

		Convey("Then a template without stages is rejected", func() {
			_, err := content.Parse([]byte("templates:\n  - id: x\n    payout_base: 10\n"))
			So(errors.Is(err, content.ErrInvalidTemplate), ShouldBeTrue)
		})

		Convey("Then duplicate ids are rejected", func() {
			doc := "templates:\n  - id: x\n    stages: [{name: A, work_units: 1}]\n  - id: x\n    stages: [{name: B, work_units: 1}]\n"
			_, err := content.Parse([]byte(doc))
			So(errors.Is(err, content.ErrInvalidTemplate), ShouldBeTrue)
		})

		Convey("Then unknown reward kinds are rejected", func() {
			doc := "templates:\n  - id: x\n    stages:\n      - name: A\n        work_units: 1\n        triggers: [{id: t, kind: rhythm, reward: {kind: fame, value: 1}}]\n"
			_, err := content.Parse([]byte(doc))
			So(errors.Is(err, content.ErrInvalidTemplate), ShouldBeTrue)
		})

		Convey("Then equipment with a negative price or duplicate id is rejected", func() {
			base := "templates:\n  - id: x\n    stages: [{name: A, work_units: 1}]\n"
			_, err := content.Parse([]byte(base + "equipment:\n  - {id: mic, price: -5}\n"))
			So(errors.Is(err, content.ErrInvalidTemplate), ShouldBeTrue)

			_, err = content.Parse([]byte(base + "equipment:\n  - {id: mic, price: 5}\n  - {id: mic, price: 6}\n"))
			So(errors.Is(err, content.ErrInvalidTemplate), ShouldBeTrue)
		})

		Convey("Then unknown fields are rejected", func() {
			_, err := content.Parse([]byte("templates:\n  - id: x\n    colour: red\n    stages: [{name: A}]\n"))
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a catalog file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "templates.yaml")
		doc := "templates:\n  - id: jingle\n    title_pattern: \"{genre} Jingle\"\n    genre: Pop\n    difficulty: 1\n    payout_base: 100\n    stages: [{name: Recording, work_units: 5}]\n"
		So(os.WriteFile(path, []byte(doc), 0o600), ShouldBeNil)

		Convey("When it is loaded", func() {
			c, err := content.Load(path)

			Convey("Then it replaces the embedded catalog", func() {
				So(err, ShouldBeNil)
				So(c.List(), ShouldHaveLength, 1)
				tpl, _ := c.Get("jingle")
				p := content.NewProject(tpl, 1)
				So(p.Title, ShouldEqual, "Pop Jingle")
				So(p.Stages[0].WorkUnitsRequired, ShouldEqual, 5)
				So(p.Stages[0].Name, ShouldEqual, "Recording")
			})
		})

		Convey("When a missing file is loaded", func() {
			_, err := content.Load(filepath.Join(t.TempDir(), "missing.yaml"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestSearch(t *testing.T) {
	c, err := content.Default()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}

	if got := c.Search("  "); len(got) != len(c.List()) {
		t.Errorf("empty query should list everything, got %d", len(got))
	}
	if got := c.Search("qqqqzzzz"); len(got) != 0 {
		t.Errorf("expected no matches, got %d", len(got))
	}

	got := c.Search("album")
	found := false
	for _, tpl := range got {
		if tpl.ID == "standard_album_60s" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected standard_album_60s in %v", got)
	}
}

func TestEquipmentCatalog(t *testing.T) {
	Convey("Given the embedded catalog", t, func() {
		c, err := content.Default()
		So(err, ShouldBeNil)

		Convey("Then the gear for sale is listed in order", func() {
			gear := c.Equipment()
			So(len(gear), ShouldBeGreaterThanOrEqualTo, 4)
			So(gear[0].ID, ShouldEqual, "starter_mic")
		})

		Convey("When looking up gear with a genre bonus and a skill gate", func() {
			e, err := c.EquipmentByID("tube_compressor")

			Convey("Then its bonuses and requirement come through", func() {
				So(err, ShouldBeNil)
				So(e.Price, ShouldEqual, 1200)
				So(e.Bonuses.Technical, ShouldEqual, 18.0)
				So(e.Bonuses.Genre["Rock"], ShouldEqual, 2.0)
				So(*e.SkillRequirement, ShouldResemble, model.SkillRequirement{Skill: "Rock", Level: 2})
			})

			Convey("And the returned gear is a copy", func() {
				e.Bonuses.Genre["Rock"] = 99
				again, _ := c.EquipmentByID("tube_compressor")
				So(again.Bonuses.Genre["Rock"], ShouldEqual, 2.0)
			})
		})

		Convey("When looking up unknown gear", func() {
			_, err := c.EquipmentByID("theremin")
			So(errors.Is(err, content.ErrEquipmentNotFound), ShouldBeTrue)
		})
	})
}
