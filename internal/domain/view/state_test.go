package view_test

import (
	"net/url"
	"testing"

	"github.com/okian/leagueboard/internal/domain/i18n"
	"github.com/okian/leagueboard/internal/domain/model"
	"github.com/okian/leagueboard/internal/domain/view"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDefaultState(t *testing.T) {
	Convey("Given the default state", t, func() {
		s := view.Default()

		So(s.Search, ShouldEqual, "")
		So(s.Theme.Dark(), ShouldBeFalse)
		So(s.Language, ShouldEqual, i18n.English)
		So(s.Season, ShouldEqual, model.Season2025)
		So(s.Sort, ShouldBeFalse)
	})
}

func TestParseState(t *testing.T) {
	Convey("Given query values", t, func() {
		d := view.Defaults{Language: i18n.English, Season: model.Season2025}

		Convey("When every key is set", func() {
			q := url.Values{"q": {"Ann"}, "dark": {"1"}, "lang": {"fr"}, "season": {"2024"}, "sort": {"true"}}
			s := view.Parse(q, "es", d)

			Convey("Then each field is read", func() {
				So(s.Search, ShouldEqual, "Ann")
				So(s.Theme.Dark(), ShouldBeTrue)
				So(s.Language, ShouldEqual, i18n.French)
				So(s.Season, ShouldEqual, model.Season2024)
				So(s.Sort, ShouldBeTrue)
			})

			Convey("And Query round-trips it", func() {
				So(view.Parse(s.Query(), "", d), ShouldResemble, s)
			})
		})

		Convey("When values are unknown", func() {
			q := url.Values{"lang": {"de"}, "season": {"1999"}, "dark": {"maybe"}}
			s := view.Parse(q, "fr", d)

			Convey("Then defaults apply and an explicit lang is not negotiated", func() {
				So(s.Language, ShouldEqual, i18n.English)
				So(s.Season, ShouldEqual, model.Season2025)
				So(s.Theme.Dark(), ShouldBeFalse)
			})
		})

		Convey("When lang is absent", func() {
			s := view.Parse(url.Values{}, "ar,en;q=0.5", d)

			Convey("Then Accept-Language decides", func() {
				So(s.Language, ShouldEqual, i18n.Arabic)
			})
		})

		Convey("When configured defaults differ", func() {
			s := view.Parse(url.Values{}, "", view.Defaults{Language: i18n.Spanish, Season: model.Season2024})

			Convey("Then they are used", func() {
				So(s.Language, ShouldEqual, i18n.Spanish)
				So(s.Season, ShouldEqual, model.Season2024)
			})
		})

		Convey("When configured defaults are invalid", func() {
			s := view.Parse(url.Values{}, "", view.Defaults{Language: "xx", Season: "1"})

			Convey("Then built-in defaults are used", func() {
				So(s.Language, ShouldEqual, i18n.English)
				So(s.Season, ShouldEqual, model.Season2025)
			})
		})
	})
}

func TestTheme(t *testing.T) {
	Convey("Given the light theme", t, func() {
		s := view.Default()

		Convey("Dark mode is idempotent", func() {
			So(s.WithDark(true).WithDark(true), ShouldResemble, s.WithDark(true))
			So(view.Light.Apply(true).Apply(true), ShouldResemble, view.Dark)
		})

		Convey("Dark mode is reversible", func() {
			So(s.WithDark(true).WithDark(false), ShouldResemble, s)
			So(s.ToggleDark().ToggleDark(), ShouldResemble, s)
		})

		Convey("The root class follows the theme", func() {
			So(s.Theme.RootClass(), ShouldEqual, "")
			So(s.WithDark(true).Theme.RootClass(), ShouldEqual, "dark")
			So(view.Dark.String(), ShouldEqual, "dark")
			So(view.Light.String(), ShouldEqual, "light")
		})
	})
}

func TestLanguageSwitch(t *testing.T) {
	Convey("Given a player list and each language", t, func() {
		players := []model.Player{player("Ann", 40), player("bob", 80)}
		base := view.Derive(players, view.Default())

		for _, lang := range i18n.Languages() {
			s := view.Default().WithLanguage(lang)

			So(s.Labels(), ShouldResemble, i18n.Lookup(lang))
			So(view.Derive(players, s), ShouldResemble, base)
		}
	})
}

func TestHref(t *testing.T) {
	Convey("Given a state", t, func() {
		s := view.Default().WithSearch("a b").ToggleSort()

		So(s.Href(), ShouldEqual, "?lang=en&q=a+b&season=2025&sort=1")
	})
}
