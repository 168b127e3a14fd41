package api

import (
	"net/http"

	"github.com/okian/leagueboard/internal/domain/i18n"
	"github.com/okian/leagueboard/internal/domain/view"
)

// LabelsHandler handles GET /api/labels.
type LabelsHandler struct {
	defaults view.Defaults
}

// NewLabelsHandler creates a new labels handler.
func NewLabelsHandler(defaults view.Defaults) *LabelsHandler {
	return &LabelsHandler{defaults: defaults}
}

type labelsResponse struct {
	Language  string      `json:"language"`
	Name      string      `json:"name"`
	Direction string      `json:"direction"`
	Labels    i18n.Labels `json:"labels"`
}

// HandleGetLabels returns the static label set of the requested language.
func (h *LabelsHandler) HandleGetLabels(w http.ResponseWriter, r *http.Request) {
	state := view.Parse(r.URL.Query(), r.Header.Get("Accept-Language"), h.defaults)
	writeJSON(w, http.StatusOK, labelsResponse{
		Language:  state.Language.String(),
		Name:      state.Language.DisplayName(),
		Direction: state.Language.Direction(),
		Labels:    state.Labels(),
	})
}
