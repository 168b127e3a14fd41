// Package api serves the JSON surface of the leaderboard: derived rows,
// label sets, manual refresh, stats and metrics.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/leagueboard/internal/domain/i18n"
	"github.com/okian/leagueboard/internal/domain/model"
	"github.com/okian/leagueboard/internal/domain/view"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// View returns the current list of a season without blocking on upstream.
	View(ctx context.Context, season model.Season) model.Board

	// Refresh queues a fetch for a season.
	Refresh(ctx context.Context, season model.Season) error
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithDefaults sets the language and season used when a request names none.
func WithDefaults(d view.Defaults) Option {
	return func(s *Server) {
		s.defaults = d
	}
}

// Server wires HTTP routes for the JSON API.
type Server struct {
	defaults view.Defaults

	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	playersHandler *PlayersHandler
	labelsHandler  *LabelsHandler
	refreshHandler *RefreshHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		defaults: view.Defaults{Language: i18n.DefaultLanguage, Season: model.DefaultSeason},
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider)
	s.playersHandler = NewPlayersHandler(deps, s.defaults)
	s.labelsHandler = NewLabelsHandler(s.defaults)
	s.refreshHandler = NewRefreshHandler(deps, s.defaults)
	return s
}

// Register attaches all API routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}
	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Get("/stats", s.statsHandler.HandleStats)
	r.Route("/api", func(r chi.Router) {
		r.Get("/players", s.playersHandler.HandleGetPlayers)
		r.Get("/labels", s.labelsHandler.HandleGetLabels)
		r.Post("/refresh", s.refreshHandler.HandleRefresh)
	})
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
