// Package repository holds the fetched player lists, one slot per season.
package repository

import (
	"context"
	"time"

	"github.com/okian/leagueboard/internal/domain/model"
)

// Snapshot is an immutable view of one season's slot.
type Snapshot struct {
	Season     model.Season
	Players    []model.Player
	FetchedAt  time.Time
	Generation uint64
}

// Store provides read/write access to the player slots.
type Store interface {
	// Replace installs players as the season's list if generation is newer
	// than the one already held. It returns false for a stale generation.
	Replace(ctx context.Context, season model.Season, generation uint64, players []model.Player, fetchedAt time.Time) (bool, error)

	// Get returns the season's snapshot and whether one was ever stored.
	Get(ctx context.Context, season model.Season) (Snapshot, bool)

	// Count returns the number of players held across all seasons.
	Count(ctx context.Context) int
}
