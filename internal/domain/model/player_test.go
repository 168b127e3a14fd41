package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/leagueboard/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestPlayerDecoding(t *testing.T) {
	Convey("Given an upstream payload", t, func() {
		payload := `[
			{"gamer_name":"Ann","league":"Gold","maps":12,"wins":7,"losses":5,"win_percentage":58.33},
			{"gamer_name":"bob","league":"Silver","maps":"9","wins":"6","losses":"3","win_percentage":"66.7"},
			{"gamer_name":"cy","win_percentage":null,"maps":{"nested":true},"wins":[1]},
			{"league":42,"losses":true}
		]`

		var players []model.Player
		err := json.Unmarshal([]byte(payload), &players)

		Convey("Then it decodes without error", func() {
			So(err, ShouldBeNil)
			So(players, ShouldHaveLength, 4)
		})

		Convey("Then numeric fields keep their display text", func() {
			So(players[0].Maps.String(), ShouldEqual, "12")
			So(players[0].WinPercentage.String(), ShouldEqual, "58.33")
			v, ok := players[0].WinPercentage.Float64()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 58.33)
		})

		Convey("Then numeric strings are both text and numbers", func() {
			So(players[1].Wins.String(), ShouldEqual, "6")
			v, ok := players[1].WinPercentage.Float64()
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 66.7)
		})

		Convey("Then null, objects and arrays render blank", func() {
			So(players[2].WinPercentage.Present(), ShouldBeFalse)
			So(players[2].Maps.String(), ShouldEqual, "")
			So(players[2].Wins.String(), ShouldEqual, "")
			_, ok := players[2].WinPercentage.Float64()
			So(ok, ShouldBeFalse)
		})

		Convey("Then a missing name is empty and other scalars stringify", func() {
			So(players[3].Name(), ShouldEqual, "")
			So(players[3].GamerName.Present(), ShouldBeFalse)
			So(players[3].League.String(), ShouldEqual, "42")
			So(players[3].Losses.String(), ShouldEqual, "true")
		})
	})
}

func TestScalarMarshal(t *testing.T) {
	Convey("Given scalars", t, func() {
		Convey("Numbers marshal as numbers", func() {
			b, err := json.Marshal(model.Number(80))
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "80")
		})

		Convey("Text marshals as a string even when numeric", func() {
			b, err := json.Marshal(model.Text("40"))
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, `"40"`)
		})

		Convey("Missing values marshal as null", func() {
			b, err := json.Marshal(model.Scalar{})
			So(err, ShouldBeNil)
			So(string(b), ShouldEqual, "null")
		})

		Convey("JSON numbers render in shortest decimal form", func() {
			for literal, want := range map[string]string{"58.30": "58.3", "1e2": "100", "12.0": "12"} {
				var s model.Scalar
				So(json.Unmarshal([]byte(literal), &s), ShouldBeNil)
				So(s.String(), ShouldEqual, want)
			}
		})
		Convey("Numeric strings keep their text", func() {
			var s model.Scalar
			So(json.Unmarshal([]byte(`"58.30"`), &s), ShouldBeNil)
			So(s.String(), ShouldEqual, "58.30")
		})
		Convey("Out-of-range numbers keep their literal", func() {
			var s model.Scalar
			So(json.Unmarshal([]byte("1e999"), &s), ShouldBeNil)
			So(s.String(), ShouldEqual, "1e999")
			_, ok := s.Float64()
			So(ok, ShouldBeFalse)
		})
	})
}

func TestParseSeason(t *testing.T) {
	Convey("Given season names", t, func() {
		s, ok := model.ParseSeason("2024")
		So(ok, ShouldBeTrue)
		So(s, ShouldEqual, model.Season2024)

		_, ok = model.ParseSeason("1999")
		So(ok, ShouldBeFalse)

		So(model.Seasons(), ShouldResemble, []model.Season{model.Season2025, model.Season2024})
		So(model.DefaultSeason, ShouldEqual, model.Season2025)
	})
}
