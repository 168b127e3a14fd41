package site

import (
	"github.com/okian/leagueboard/internal/domain/view"
	"github.com/okian/leagueboard/pkg/logger"
)

// Option applies a configuration option to the Handler.
type Option func(*Handler)

// WithDefaults sets the language and season used when a request names none.
func WithDefaults(d view.Defaults) Option {
	return func(h *Handler) {
		h.defaults = d
	}
}

// WithRefreshSeconds sets the auto-refresh delay of a page whose season is
// still loading. Zero disables the hint.
func WithRefreshSeconds(sec int) Option {
	return func(h *Handler) {
		if sec >= 0 {
			h.refreshSeconds = sec
		}
	}
}

// WithLogger sets a custom logger for the handler.
func WithLogger(l logger.Logger) Option {
	return func(h *Handler) {
		if l != nil {
			h.logger = l
		}
	}
}
