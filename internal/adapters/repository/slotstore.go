package repository

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/leagueboard/internal/domain/model"
	"github.com/okian/leagueboard/pkg/metrics"
)

type slots map[model.Season]*Snapshot

// SlotStore keeps one immutable snapshot per season behind an atomic
// pointer. Readers never lock; writers copy the map under mu.
type SlotStore struct {
	mu      sync.Mutex
	current atomic.Pointer[slots]
	closed  atomic.Bool
}

// NewSlotStore returns an empty store.
func NewSlotStore() *SlotStore {
	s := &SlotStore{}
	empty := slots{}
	s.current.Store(&empty)
	return s
}

// Replace implements Store.
func (s *SlotStore) Replace(_ context.Context, season model.Season, generation uint64, players []model.Player, fetchedAt time.Time) (bool, error) {
	if _, ok := model.ParseSeason(string(season)); !ok {
		return false, fmt.Errorf("%w: %q", ErrInvalidSeason, season)
	}
	if s.closed.Load() {
		return false, ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := *s.current.Load()
	if held, ok := old[season]; ok && held.Generation >= generation {
		return false, nil
	}

	next := maps.Clone(old)
	next[season] = &Snapshot{
		Season:     season,
		Players:    slices.Clone(players),
		FetchedAt:  fetchedAt,
		Generation: generation,
	}
	s.current.Store(&next)

	metrics.UpdatePlayersLoaded(string(season), len(players))
	return true, nil
}

// Get implements Store.
func (s *SlotStore) Get(_ context.Context, season model.Season) (Snapshot, bool) {
	snap, ok := (*s.current.Load())[season]
	if !ok {
		return Snapshot{Season: season}, false
	}
	return *snap, true
}

// Count implements Store.
func (s *SlotStore) Count(_ context.Context) int {
	n := 0
	for _, snap := range *s.current.Load() {
		n += len(snap.Players)
	}
	return n
}

// Close rejects further writes. Reads keep working.
func (s *SlotStore) Close() error {
	s.closed.Store(true)
	return nil
}
