// Package worker runs upstream fetches off the request path.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/leagueboard/internal/adapters/mq/queue"
	"github.com/okian/leagueboard/internal/adapters/upstream"
	"github.com/okian/leagueboard/internal/domain/model"
	"github.com/okian/leagueboard/pkg/logger"
	"github.com/okian/leagueboard/pkg/metrics"
)

const (
	defaultWorkerCount    = 1
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Fetch outcomes, used as metric label values.
const (
	OutcomeOK    = "ok"
	OutcomeStale = "stale"
	OutcomeError = "error"
)

// KindStore labels failures to write a fetched list.
const KindStore = "store"

// ErrStopped is returned by Shutdown on a worker that was already stopped.
var ErrStopped = errors.New("worker stopped")

// Fetcher loads a season from upstream.
type Fetcher interface {
	Fetch(ctx context.Context, season model.Season) (upstream.Result, error)
}

// Applier stores a fetched list if its generation is the newest seen.
type Applier interface {
	Replace(ctx context.Context, season model.Season, generation uint64, players []model.Player, fetchedAt time.Time) (bool, error)
}

// Queue defines how workers receive requests.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Request
}

// Outcome describes one processed request.
type Outcome struct {
	Request   queue.Request
	RequestID string
	Status    string
	Rows      int
	Err       error
}

// Worker processes fetch requests.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after the request in flight, if any.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue   Queue
	fetcher Fetcher
	applier Applier
	name    string
	onDone  func(ctx context.Context, o Outcome)

	stopOnce sync.Once
	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, fetcher Fetcher, applier Applier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		fetcher:  fetcher,
		applier:  applier,
		name:     "worker",
		onDone:   func(context.Context, Outcome) {},
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.With(logger.String("worker", w.name))
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	// stopping the dequeue side on shutdown hands back a request it holds
	dequeueCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-w.shutdown:
			cancel()
		case <-dequeueCtx.Done():
		}
	}()

	requests := w.queue.Dequeue(dequeueCtx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case r, ok := <-requests:
			if !ok {
				return
			}
			w.onDone(ctx, w.process(ctx, r))
		}
	}
}

// Shutdown stops the worker and waits for it to exit.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	stopped := true
	w.stopOnce.Do(func() {
		stopped = false
		close(w.shutdown)
	})
	if stopped {
		return ErrStopped
	}

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process fetches one season and hands the list to the applier.
func (w *InMemoryWorker) process(ctx context.Context, r queue.Request) Outcome {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	season := r.Season.String()
	out := Outcome{Request: r}

	res, err := w.fetcher.Fetch(ctx, r.Season)
	latency := float64(time.Since(start).Milliseconds())
	out.RequestID = res.RequestID
	if err != nil {
		kind := upstream.Kind(err)
		metrics.RecordFetch(season, OutcomeError, latency)
		metrics.RecordFetchError(season, kind)
		w.logger.Error(ctx, "leaderboard fetch failed",
			logger.String("season", season),
			logger.String("request_id", res.RequestID),
			logger.String("kind", kind),
			logger.String("reason", r.Reason),
			logger.Error(err),
		)
		out.Status, out.Err = OutcomeError, err
		return out
	}

	applied, err := w.applier.Replace(ctx, r.Season, r.Generation, res.Players, res.FetchedAt)
	if err != nil {
		metrics.RecordFetch(season, OutcomeError, latency)
		metrics.RecordFetchError(season, KindStore)
		w.logger.Error(ctx, "storing leaderboard failed",
			logger.String("season", season),
			logger.String("request_id", res.RequestID),
			logger.Error(err),
		)
		out.Status, out.Err = OutcomeError, fmt.Errorf("store season %s: %w", season, err)
		return out
	}

	out.Rows = len(res.Players)
	if !applied {
		metrics.RecordFetch(season, OutcomeStale, latency)
		metrics.RecordFetchStale(season)
		w.logger.Debug(ctx, "dropped stale leaderboard",
			logger.String("season", season),
			logger.Int64("generation", int64(r.Generation)),
		)
		out.Status = OutcomeStale
		return out
	}

	metrics.RecordFetch(season, OutcomeOK, latency)
	w.logger.Info(ctx, "leaderboard loaded",
		logger.String("season", season),
		logger.String("request_id", res.RequestID),
		logger.Int("players", out.Rows),
		logger.Float64("latency_ms", latency),
	)
	out.Status = OutcomeOK
	return out
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers. opts apply to every
// worker; each gets its own name.
func NewPool(workerCount int, q Queue, fetcher Fetcher, applier Applier, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}
	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		wopts := append(append([]Option{}, opts...), WithName("worker-"+strconv.Itoa(i)))
		pool.workers[i] = NewInMemoryWorker(q, fetcher, applier, wopts...)
	}
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	metrics.UpdateWorkerCount(len(p.workers))
}

// Stop stops every worker without draining the queue. Requests still queued,
// including one a worker had taken but not started, stay in the queue.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
	defer cancel()
	for _, w := range p.workers {
		_ = w.Shutdown(ctx)
	}
	metrics.UpdateWorkerCount(0)
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	var timedOut bool
	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			timedOut = true
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
		}
	}
	metrics.UpdateWorkerCount(0)
	if timedOut {
		return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
	}
	return nil
}
