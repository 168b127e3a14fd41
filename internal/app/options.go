package service

import (
	"time"

	workerpool "github.com/okian/leagueboard/internal/adapters/mq/worker"
	"github.com/okian/leagueboard/internal/adapters/repository"
	"github.com/okian/leagueboard/internal/domain/model"
	"github.com/okian/leagueboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the upstream fetcher. Start fails without one.
func WithFetcher(f workerpool.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithStore replaces the default in-memory slot store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithWorkerCount sets the number of fetch workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of pending fetch requests.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRefreshInterval sets how old a season's list may get before a view
// triggers a new fetch. Zero disables time-based refresh.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithDefaultSeason sets the season fetched on start.
func WithDefaultSeason(season model.Season) Option {
	return func(s *Service) {
		if _, ok := model.ParseSeason(string(season)); ok {
			s.defaultSeason = season
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
