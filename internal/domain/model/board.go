package model

import "time"

// Board is one season's player list as a reader sees it.
type Board struct {
	Season    Season
	Players   []Player
	FetchedAt time.Time
	// Loaded reports whether any fetch for the season has succeeded.
	Loaded bool
	// Loading reports whether a fetch for the season is queued or running.
	Loading bool
}
