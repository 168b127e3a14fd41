package model

// Season is a year-scoped partition of leaderboard data.
type Season string

// Supported seasons, newest first.
const (
	Season2025 Season = "2025"
	Season2024 Season = "2024"
)

// DefaultSeason is selected when nothing else is.
const DefaultSeason = Season2025

// Seasons lists the selectable seasons in display order.
func Seasons() []Season {
	return []Season{Season2025, Season2024}
}

// ParseSeason returns the season named by s and whether it is supported.
func ParseSeason(s string) (Season, bool) {
	for _, season := range Seasons() {
		if string(season) == s {
			return season, true
		}
	}
	return "", false
}

// String implements fmt.Stringer.
func (s Season) String() string { return string(s) }
