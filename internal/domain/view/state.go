// Package view holds per-request view state and derives the displayed rows.
package view

import (
	"net/url"
	"strings"

	"github.com/okian/leagueboard/internal/domain/i18n"
	"github.com/okian/leagueboard/internal/domain/model"
)

// Query keys carrying the view state.
const (
	KeySearch   = "q"
	KeyDark     = "dark"
	KeyLanguage = "lang"
	KeySeason   = "season"
	KeySort     = "sort"
)

// State is the five independent UI values. The zero value is not the
// default state; use Default or Parse.
type State struct {
	Search   string
	Theme    Theme
	Language i18n.Language
	Season   model.Season
	Sort     bool
}

// Defaults selects what Parse falls back to.
type Defaults struct {
	Language i18n.Language
	Season   model.Season
}

// Default returns the initial state: empty search, light theme, English,
// newest season, sort off.
func Default() State {
	return State{
		Theme:    Light,
		Language: i18n.DefaultLanguage,
		Season:   model.DefaultSeason,
	}
}

// Parse reads a State from URL query values. Unknown or missing values fall
// back to d; a missing language is negotiated from acceptLanguage first.
func Parse(q url.Values, acceptLanguage string, d Defaults) State {
	s := Default()
	if _, ok := i18n.ParseLanguage(string(d.Language)); ok {
		s.Language = d.Language
	}
	if _, ok := model.ParseSeason(string(d.Season)); ok {
		s.Season = d.Season
	}

	s.Search = q.Get(KeySearch)
	s.Theme = s.Theme.Apply(parseBool(q.Get(KeyDark)))
	s.Sort = parseBool(q.Get(KeySort))

	if lang, ok := i18n.ParseLanguage(q.Get(KeyLanguage)); ok {
		s.Language = lang
	} else if q.Get(KeyLanguage) == "" {
		if lang, ok := i18n.Negotiate(acceptLanguage); ok {
			s.Language = lang
		}
	}
	if season, ok := model.ParseSeason(q.Get(KeySeason)); ok {
		s.Season = season
	}
	return s
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// WithSearch returns s with the search text replaced.
func (s State) WithSearch(text string) State { s.Search = text; return s }

// WithDark returns s with dark mode set to on.
func (s State) WithDark(on bool) State { s.Theme = s.Theme.Apply(on); return s }

// WithLanguage returns s with the language replaced.
func (s State) WithLanguage(l i18n.Language) State { s.Language = l; return s }

// WithSeason returns s with the season replaced.
func (s State) WithSeason(season model.Season) State { s.Season = season; return s }

// WithSort returns s with the sort toggle set to on.
func (s State) WithSort(on bool) State { s.Sort = on; return s }

// ToggleDark flips dark mode.
func (s State) ToggleDark() State { return s.WithDark(!s.Theme.Dark()) }

// ToggleSort flips the sort toggle.
func (s State) ToggleSort() State { return s.WithSort(!s.Sort) }

// Query encodes s as URL values. Default-valued fields are omitted except
// language and season, which are always written so links are stable.
func (s State) Query() url.Values {
	q := url.Values{}
	if s.Search != "" {
		q.Set(KeySearch, s.Search)
	}
	if s.Theme.Dark() {
		q.Set(KeyDark, "1")
	}
	if s.Sort {
		q.Set(KeySort, "1")
	}
	q.Set(KeyLanguage, string(s.Language))
	q.Set(KeySeason, string(s.Season))
	return q
}

// Href returns "?"+encoded query, for use in links.
func (s State) Href() string {
	return "?" + s.Query().Encode()
}

// Labels returns the static labels of the selected language.
func (s State) Labels() i18n.Labels {
	return i18n.Lookup(s.Language)
}
