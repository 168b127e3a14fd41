// Package service keeps per-season player lists fresh and serves them to
// the HTTP layer without ever blocking on the upstream.
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	fetchqueue "github.com/okian/leagueboard/internal/adapters/mq/queue"
	workerpool "github.com/okian/leagueboard/internal/adapters/mq/worker"
	"github.com/okian/leagueboard/internal/adapters/repository"
	"github.com/okian/leagueboard/internal/domain/model"
	"github.com/okian/leagueboard/pkg/logger"
	"github.com/okian/leagueboard/pkg/metrics"
)

const (
	defaultWorkerCount     = 1
	defaultQueueSize       = 64
	defaultRefreshInterval = time.Minute
	shutdownTimeout        = 10 * time.Second
)

// seasonState is the bookkeeping kept per season under Service.mu.
type seasonState struct {
	generation uint64 // last generation issued
	pending    uint64 // generation in flight, 0 when idle
	failedAt   time.Time
	failures   int
}

// Service implements the dependencies the HTTP layer needs.
type Service struct {
	mu sync.Mutex

	store   repository.Store
	fetcher workerpool.Fetcher
	queue   *fetchqueue.InMemoryQueue
	pool    *workerpool.Pool

	workerCount     int
	queueSize       int
	refreshInterval time.Duration
	defaultSeason   model.Season
	now             func() time.Time

	seasons map[model.Season]*seasonState
	started bool

	logger logger.Logger
}

// New constructs a Service. Start must be called before use.
func New(opts ...Option) *Service {
	s := &Service{
		store:           repository.NewSlotStore(),
		workerCount:     defaultWorkerCount,
		queueSize:       defaultQueueSize,
		refreshInterval: defaultRefreshInterval,
		defaultSeason:   model.DefaultSeason,
		now:             time.Now,
		seasons:         make(map[model.Season]*seasonState),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	return s
}

// Start starts the fetch workers and requests the default season.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	if s.fetcher == nil {
		s.mu.Unlock()
		return ErrNoFetcher
	}
	s.queue = fetchqueue.NewInMemoryQueue(fetchqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.fetcher, s.store,
		workerpool.WithOnDone(s.fetchDone),
	)
	s.pool.Start(ctx)
	s.started = true
	s.mu.Unlock()

	s.logger.Info(ctx, "leaderboard service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queue_size", s.queueSize),
		logger.Duration("refresh_interval", s.refreshInterval),
		logger.String("default_season", s.defaultSeason.String()),
	)

	if err := s.request(ctx, s.defaultSeason, model.ReasonStartup); err != nil {
		return fmt.Errorf("initial fetch: %w", err)
	}
	return nil
}

// Stop closes the queue and waits for in-flight fetches to finish.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	pool := s.pool
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping leaderboard service")
	if err := pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "fetch workers did not stop cleanly", logger.Error(err))
	}
	if closer, ok := s.store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}
	s.logger.Info(ctx, "leaderboard service stopped")
}

// View returns the current list for season. When the slot is empty or older
// than the refresh interval a fetch is queued; the call never waits for it.
func (s *Service) View(ctx context.Context, season model.Season) model.Board {
	snap, ok := s.store.Get(ctx, season)

	if s.needsFetch(season, snap, ok) {
		reason := model.ReasonStale
		if !ok {
			reason = model.ReasonEmpty
		}
		if err := s.request(ctx, season, reason); err != nil {
			s.logger.Warn(ctx, "could not queue fetch",
				logger.String("season", season.String()),
				logger.String("reason", reason),
				logger.Error(err),
			)
		}
	}

	return model.Board{
		Season:    season,
		Players:   snap.Players,
		FetchedAt: snap.FetchedAt,
		Loaded:    ok,
		Loading:   s.isPending(season),
	}
}

// Refresh queues a fetch for season regardless of staleness. A fetch that
// is already pending for the season satisfies the call.
func (s *Service) Refresh(ctx context.Context, season model.Season) error {
	return s.request(ctx, season, model.ReasonManual)
}

func (s *Service) needsFetch(season model.Season, snap repository.Snapshot, loaded bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.seasons[season]
	if st != nil && st.pending != 0 {
		return false
	}
	now := s.now()
	if st != nil && !st.failedAt.IsZero() && now.Sub(st.failedAt) < s.refreshInterval {
		// a failed season waits one interval before views retrigger it
		return false
	}
	if !loaded {
		return true
	}
	return s.refreshInterval > 0 && now.Sub(snap.FetchedAt) >= s.refreshInterval
}

// request stamps a new generation for season and queues it, unless a fetch
// for the season is already pending.
func (s *Service) request(ctx context.Context, season model.Season, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return ErrNotStarted
	}
	st := s.state(season)
	if st.pending != 0 {
		return nil
	}

	r := fetchqueue.Request{
		Season:      season,
		Generation:  st.generation + 1,
		Reason:      reason,
		RequestedAt: s.now(),
	}
	if !s.queue.Enqueue(ctx, r) {
		if s.queue.IsClosed() {
			return ErrQueueClosed
		}
		return ErrQueueFull
	}
	st.generation = r.Generation
	st.pending = r.Generation

	s.logger.Debug(ctx, "fetch queued",
		logger.String("season", season.String()),
		logger.String("reason", reason),
		logger.Int64("generation", int64(r.Generation)),
	)
	return nil
}

// fetchDone is called by the workers after every request.
func (s *Service) fetchDone(_ context.Context, o workerpool.Outcome) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.state(o.Request.Season)
	if st.pending == o.Request.Generation {
		st.pending = 0
	}
	if o.Err != nil {
		st.failedAt = s.now()
		st.failures++
		return
	}
	st.failedAt = time.Time{}
}

func (s *Service) isPending(season model.Season) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.seasons[season]
	return st != nil && st.pending != 0
}

// state must be called with mu held.
func (s *Service) state(season model.Season) *seasonState {
	st, ok := s.seasons[season]
	if !ok {
		st = &seasonState{}
		s.seasons[season] = st
	}
	return st
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	ctx := context.Background()

	s.mu.Lock()
	defer s.mu.Unlock()

	stats := map[string]any{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"refreshInterval": s.refreshInterval.String(),
		"defaultSeason":   s.defaultSeason.String(),
		"totalPlayers":    s.store.Count(ctx),
	}
	if s.queue != nil {
		n := s.queue.Len(ctx)
		stats["queueLength"] = n
		metrics.UpdateQueueSize(n)
	}

	seasons := make(map[string]any, len(model.Seasons()))
	for _, season := range model.Seasons() {
		snap, loaded := s.store.Get(ctx, season)
		entry := map[string]any{
			"loaded":  loaded,
			"players": len(snap.Players),
			"pending": false,
		}
		if loaded {
			entry["fetchedAt"] = snap.FetchedAt.UTC().Format(time.RFC3339)
			entry["generation"] = snap.Generation
		}
		if st := s.seasons[season]; st != nil {
			entry["pending"] = st.pending != 0
			entry["failures"] = st.failures
		}
		seasons[season.String()] = entry
	}
	stats["seasons"] = seasons
	return stats
}
