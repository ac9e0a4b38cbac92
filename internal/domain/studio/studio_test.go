package studio_test

import (
	"errors"
	"testing"

	"github.com/okian/tycoon/internal/domain/model"
	"github.com/okian/tycoon/internal/domain/studio"
	. "github.com/smartystreets/goconvey/convey"
)

func mic() model.Equipment {
	return model.Equipment{
		ID:               "dynamic_mic",
		Name:             "Dynamic Recording Mic",
		Category:         "microphone",
		Price:            320,
		Bonuses:          model.EquipmentBonuses{Quality: 8, Technical: 5, Genre: map[string]float64{"Rock": 2, "Hip-hop": 1}},
		SkillRequirement: &model.SkillRequirement{Skill: "Rock", Level: 1},
	}
}

func TestSkillBonus(t *testing.T) {
	Convey("Given a level 4 genre skill", t, func() {
		So(studio.SkillBonus(4, studio.BonusCreativity), ShouldEqual, 8.0)
		So(studio.SkillBonus(4, studio.BonusTechnical), ShouldEqual, 6.0)
		So(studio.SkillBonus(4, studio.BonusQuality), ShouldEqual, 4.0)
		So(studio.SkillBonus(4, "speed"), ShouldEqual, 0.0)
		So(studio.SkillBonus(-2, studio.BonusCreativity), ShouldEqual, 0.0)
	})
}

func TestEquipmentBonuses(t *testing.T) {
	Convey("Given two owned pieces of gear", t, func() {
		reverb := model.Equipment{ID: "reverb", Bonuses: model.EquipmentBonuses{Creativity: 20, Quality: 15, Speed: 5, Genre: map[string]float64{"Rock": 1}}}
		owned := []model.Equipment{mic(), reverb}

		Convey("Then flat bonuses sum and genre bonuses only count for the genre", func() {
			b := studio.EquipmentBonuses(owned, "Rock")
			So(b, ShouldResemble, studio.Bonuses{Quality: 23, Creativity: 20, Technical: 5, Speed: 5, Genre: 3})
			So(studio.EquipmentBonuses(owned, "Jazz").Genre, ShouldEqual, 0.0)
		})

		Convey("Then the boost combines genre skill and gear", func() {
			skills := map[string]model.StudioSkill{"Rock": {Level: 2}}
			boost := studio.BoostFor(skills, owned, "Rock")
			So(boost, ShouldResemble, studio.Boost{SkillCreativity: 4, SkillTechnical: 3, GearCreativity: 20, GearTechnical: 5})
		})
	})
}

func TestCanPurchase(t *testing.T) {
	Convey("Given a mic that requires Rock level 1", t, func() {
		e := mic()
		skilled := map[string]model.StudioSkill{"Rock": {Level: 1}}

		Convey("Then a skilled, funded studio can buy it", func() {
			So(studio.CanPurchase(500, nil, skilled, e), ShouldBeNil)
		})

		Convey("Then funds are checked first", func() {
			err := studio.CanPurchase(100, []model.Equipment{e}, nil, e)
			So(errors.Is(err, studio.ErrInsufficientFunds), ShouldBeTrue)
		})

		Convey("Then owned gear cannot be bought twice", func() {
			err := studio.CanPurchase(500, []model.Equipment{e}, skilled, e)
			So(errors.Is(err, studio.ErrAlreadyOwned), ShouldBeTrue)
		})

		Convey("Then a missing or low skill blocks the purchase", func() {
			err := studio.CanPurchase(500, nil, nil, e)
			So(errors.Is(err, studio.ErrSkillTooLow), ShouldBeTrue)
		})
	})
}

func TestAddXP(t *testing.T) {
	Convey("Given an empty skill set", t, func() {
		So(studio.XPToNext(0), ShouldEqual, 100)
		So(studio.XPToNext(1), ShouldEqual, 150)
		So(studio.XPToNext(2), ShouldEqual, 225)

		Convey("When 260 XP is earned in one genre", func() {
			in := map[string]model.StudioSkill{}
			out, gained := studio.AddXP(in, "Rock", 260)

			Convey("Then it levels twice and keeps the remainder", func() {
				So(gained, ShouldEqual, 2)
				So(out["Rock"], ShouldResemble, model.StudioSkill{Level: 2, XP: 10})
				So(in, ShouldBeEmpty)
			})
		})

		Convey("When no XP is earned", func() {
			out, gained := studio.AddXP(nil, "Rock", 0)
			So(gained, ShouldEqual, 0)
			So(out, ShouldBeEmpty)
		})
	})
}

func TestPurchaseXP(t *testing.T) {
	Convey("Given gear with genre bonuses", t, func() {
		So(studio.PurchaseXP(mic()), ShouldResemble, map[string]int{"Rock": 10, "Hip-hop": 5})
		So(studio.PurchaseXP(model.Equipment{ID: "plain"}), ShouldBeNil)
	})
}
