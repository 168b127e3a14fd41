package api

import (
	"context"
	"errors"
	"net/http"

	service "github.com/okian/leagueboard/internal/app"
	"github.com/okian/leagueboard/internal/domain/model"
	"github.com/okian/leagueboard/internal/domain/view"
)

// RefreshDependencies defines what the refresh handler triggers.
type RefreshDependencies interface {
	Refresh(ctx context.Context, season model.Season) error
}

// RefreshHandler handles POST /api/refresh.
type RefreshHandler struct {
	deps     RefreshDependencies
	defaults view.Defaults
}

// NewRefreshHandler creates a new refresh handler.
func NewRefreshHandler(deps RefreshDependencies, defaults view.Defaults) *RefreshHandler {
	return &RefreshHandler{deps: deps, defaults: defaults}
}

type ackResponse struct {
	Status string `json:"status"`
	Season string `json:"season"`
}

// HandleRefresh queues a fetch. An empty season means the default one; an
// unknown season is rejected.
func (h *RefreshHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	const op = "api.refresh"

	season := h.defaults.Season
	if raw := r.URL.Query().Get(view.KeySeason); raw != "" {
		s, ok := model.ParseSeason(raw)
		if !ok {
			writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
			return
		}
		season = s
	}

	if err := h.deps.Refresh(r.Context(), season); err != nil {
		switch {
		case errors.Is(err, service.ErrQueueFull):
			writeError(w, http.StatusTooManyRequests, "queue_full", WrapKind(op, ErrBackpressure, err))
		case errors.Is(err, service.ErrNotStarted), errors.Is(err, service.ErrQueueClosed):
			writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		}
		return
	}
	writeJSON(w, http.StatusAccepted, ackResponse{Status: "queued", Season: season.String()})
}
