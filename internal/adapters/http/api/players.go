package api

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/leagueboard/internal/domain/model"
	"github.com/okian/leagueboard/internal/domain/view"
	"github.com/okian/leagueboard/pkg/metrics"
)

// PlayersDependencies defines what the players handler reads.
type PlayersDependencies interface {
	View(ctx context.Context, season model.Season) model.Board
}

// PlayersHandler handles GET /api/players.
type PlayersHandler struct {
	deps     PlayersDependencies
	defaults view.Defaults
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayersDependencies, defaults view.Defaults) *PlayersHandler {
	return &PlayersHandler{deps: deps, defaults: defaults}
}

type playersResponse struct {
	Season    string     `json:"season"`
	Loading   bool       `json:"loading"`
	FetchedAt *time.Time `json:"fetched_at"`
	Rows      []view.Row `json:"rows"`
}

// HandleGetPlayers returns the rows the page would show for the same
// q, sort and season values.
func (h *PlayersHandler) HandleGetPlayers(w http.ResponseWriter, r *http.Request) {
	state := view.Parse(r.URL.Query(), r.Header.Get("Accept-Language"), h.defaults)
	board := h.deps.View(r.Context(), state.Season)

	resp := playersResponse{
		Season:  state.Season.String(),
		Loading: board.Loading,
		Rows:    view.Derive(board.Players, state),
	}
	if board.Loaded {
		at := board.FetchedAt.UTC()
		resp.FetchedAt = &at
	}

	metrics.RecordRender("json", state.Language.String(), state.Theme.String(), len(resp.Rows))
	writeJSON(w, http.StatusOK, resp)
}
