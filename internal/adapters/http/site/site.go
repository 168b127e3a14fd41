// Package site renders the leaderboard page.
package site

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/okian/leagueboard/internal/domain/i18n"
	"github.com/okian/leagueboard/internal/domain/model"
	"github.com/okian/leagueboard/internal/domain/view"
	"github.com/okian/leagueboard/pkg/logger"
	"github.com/okian/leagueboard/pkg/metrics"
)

const defaultRefreshSeconds = 2

//go:embed templates/page.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

var pageTemplate = template.Must(template.New("page.html").ParseFS(templateFS, "templates/page.html"))

// Source returns the current list of a season without blocking on upstream.
type Source interface {
	View(ctx context.Context, season model.Season) model.Board
}

// Handler serves GET /.
type Handler struct {
	source         Source
	defaults       view.Defaults
	refreshSeconds int
	logger         logger.Logger
}

// NewHandler creates a page handler reading from source.
func NewHandler(source Source, opts ...Option) *Handler {
	h := &Handler{
		source:         source,
		defaults:       view.Defaults{Language: i18n.DefaultLanguage, Season: model.DefaultSeason},
		refreshSeconds: defaultRefreshSeconds,
		logger:         logger.Get().Named("site"),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register attaches the page and its stylesheet to r.
func Register(_ context.Context, r chi.Router, h *Handler) {
	if r == nil {
		panic("router is nil")
	}
	r.Get("/", h.ServeHTTP)
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(StaticFS())))
}

// StaticFS returns the embedded stylesheet directory.
func StaticFS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		return http.FS(staticFS)
	}
	return http.FS(sub)
}

// ServeHTTP renders the page for the state carried in the request URL.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := view.Parse(r.URL.Query(), r.Header.Get("Accept-Language"), h.defaults)
	board := h.source.View(ctx, state.Season)

	var buf bytes.Buffer
	data := newPage(state, board, h.refreshSeconds)
	if err := pageTemplate.Execute(&buf, data); err != nil {
		h.logger.Error(ctx, "page render failed",
			logger.String("language", state.Language.String()),
			logger.String("season", state.Season.String()),
			logger.Error(err),
		)
		http.Error(w, fmt.Errorf("%w: %w", ErrRender, err).Error(), http.StatusInternalServerError)
		return
	}

	metrics.RecordRender("html", state.Language.String(), state.Theme.String(), len(data.Rows))
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", state.Language.String())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

type link struct {
	Label    string
	Href     string
	Selected bool
}

// page is the template input. Every string is final display text.
type page struct {
	Lang       string
	Dir        string
	RootClass  string
	Labels     i18n.Labels
	Headers    [6]string
	Rows       []view.Row
	Languages  []link
	Seasons    []link
	Theme      link
	Sort       link
	Search     string
	Hidden     map[string]string
	Refresh    int
	Loading    bool
	SeasonName string
}

func newPage(s view.State, board model.Board, refreshSeconds int) page {
	labels := s.Labels()
	p := page{
		Lang:       s.Language.String(),
		Dir:        s.Language.Direction(),
		RootClass:  s.Theme.RootClass(),
		Labels:     labels,
		Headers:    labels.Headers(),
		Rows:       view.Derive(board.Players, s),
		Theme:      link{Label: labels.ModeToggle(s.Theme.Dark()), Href: s.ToggleDark().Href(), Selected: s.Theme.Dark()},
		Sort:       link{Label: labels.SortByWinPercentage, Href: s.ToggleSort().Href(), Selected: s.Sort},
		Search:     s.Search,
		Loading:    board.Loading && !board.Loaded,
		SeasonName: s.Season.String(),
	}
	if p.Loading {
		p.Refresh = refreshSeconds
	}

	for _, lang := range i18n.Languages() {
		p.Languages = append(p.Languages, link{
			Label:    lang.DisplayName(),
			Href:     s.WithLanguage(lang).Href(),
			Selected: lang == s.Language,
		})
	}
	for _, season := range model.Seasons() {
		p.Seasons = append(p.Seasons, link{
			Label:    season.String(),
			Href:     s.WithSeason(season).Href(),
			Selected: season == s.Season,
		})
	}

	// the search form resubmits every other value unchanged
	p.Hidden = map[string]string{}
	for k, v := range s.WithSearch("").Query() {
		p.Hidden[k] = v[0]
	}
	return p
}
