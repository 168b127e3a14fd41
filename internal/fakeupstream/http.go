// Package fakeupstream serves generated player arrays in the shape of the
// real leaderboard endpoint, for local development.
package fakeupstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/okian/leagueboard/pkg/logger"
)

const (
	defaultSeason     = "2025"
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
)

// Handler serves the player array.
type Handler struct {
	cfg    Config
	logger logger.Logger
}

// NewHandler returns a handler for cfg.
func NewHandler(cfg Config) *Handler {
	return &Handler{cfg: cfg, logger: logger.Get().Named("fake-upstream")}
}

// Router mounts the handler at cfg.Path.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Get(h.cfg.Path, h.ServeHTTP)
	return r
}

// ServeHTTP answers one request, honoring the configured latency and
// failure rate.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if h.cfg.Latency > 0 {
		select {
		case <-time.After(h.cfg.Latency):
		case <-ctx.Done():
			return
		}
	}

	season := r.URL.Query().Get(h.cfg.SeasonParam)
	if season == "" {
		season = defaultSeason
	}

	if h.cfg.FailRate > 0 && rand.Float64() < h.cfg.FailRate {
		h.logger.Info(ctx, "injected failure",
			logger.String("season", season),
			logger.String("request_id", middleware.GetReqID(ctx)),
		)
		http.Error(w, "injected failure", http.StatusServiceUnavailable)
		return
	}

	players := Generate(h.cfg.Seed, season, h.cfg.Players, h.cfg.Sparse)
	h.logger.Debug(ctx, "serving players",
		logger.String("season", season),
		logger.Int("players", len(players)),
		logger.String("request_id", middleware.GetReqID(ctx)),
	)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(players)
}

// Run serves until ctx is done.
func Run(ctx context.Context, cfg Config) error {
	if cfg.Players < 0 {
		return fmt.Errorf("players must not be negative: %d", cfg.Players)
	}
	if cfg.FailRate < 0 || cfg.FailRate > 1 {
		return fmt.Errorf("fail rate must be within [0,1]: %v", cfg.FailRate)
	}

	h := NewHandler(cfg)
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		h.logger.Info(ctx, "fake upstream listening",
			logger.String("addr", cfg.Addr),
			logger.String("path", cfg.Path),
			logger.Int("players", cfg.Players),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("fake upstream: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
