package view

import (
	"slices"
	"strings"

	"github.com/okian/leagueboard/internal/domain/model"
)

// Row is one rendered table row: six display cells.
type Row struct {
	GamerName     string `json:"gamer_name"`
	League        string `json:"league"`
	Maps          string `json:"maps"`
	Wins          string `json:"wins"`
	Losses        string `json:"losses"`
	WinPercentage string `json:"win_percentage"`
}

// Cells returns the row cells in column order.
func (r Row) Cells() [6]string {
	return [6]string{r.GamerName, r.League, r.Maps, r.Wins, r.Losses, r.WinPercentage}
}

// Derive applies the optional sort, then the search filter, and formats rows.
// players is never modified.
func Derive(players []model.Player, s State) []Row {
	ordered := players
	if s.Sort {
		ordered = SortByWinPercentage(players)
	}
	filtered := Filter(ordered, s.Search)

	rows := make([]Row, len(filtered))
	for i, p := range filtered {
		rows[i] = ToRow(p)
	}
	return rows
}

// Filter keeps players whose lower-cased name contains the lower-cased search
// text, preserving order. An empty search keeps everyone.
func Filter(players []model.Player, search string) []model.Player {
	needle := strings.ToLower(search)
	out := make([]model.Player, 0, len(players))
	for _, p := range players {
		if strings.Contains(strings.ToLower(p.Name()), needle) {
			out = append(out, p)
		}
	}
	return out
}

// SortByWinPercentage returns a copy ordered by descending win percentage.
// Ties keep their source order; players without a numeric value go last.
func SortByWinPercentage(players []model.Player) []model.Player {
	out := slices.Clone(players)
	slices.SortStableFunc(out, func(a, b model.Player) int {
		av, aok := a.WinPercentage.Float64()
		bv, bok := b.WinPercentage.Float64()
		switch {
		case aok && !bok:
			return -1
		case !aok && bok:
			return 1
		case !aok && !bok:
			return 0
		case av > bv:
			return -1
		case av < bv:
			return 1
		}
		return 0
	})
	return out
}

// ToRow formats a player for display. Missing values are blank; the win
// percentage gets a trailing % only when it is numeric.
func ToRow(p model.Player) Row {
	pct := p.WinPercentage.String()
	if _, ok := p.WinPercentage.Float64(); ok {
		pct += "%"
	}
	return Row{
		GamerName:     p.GamerName.String(),
		League:        p.League.String(),
		Maps:          p.Maps.String(),
		Wins:          p.Wins.String(),
		Losses:        p.Losses.String(),
		WinPercentage: pct,
	}
}
