package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/leagueboard/internal/adapters/http/api"
	"github.com/okian/leagueboard/internal/adapters/http/site"
	"github.com/okian/leagueboard/internal/adapters/http/swagger"
	"github.com/okian/leagueboard/internal/adapters/upstream"
	app "github.com/okian/leagueboard/internal/app"
	"github.com/okian/leagueboard/internal/config"
	"github.com/okian/leagueboard/internal/domain/i18n"
	"github.com/okian/leagueboard/internal/domain/model"
	"github.com/okian/leagueboard/internal/domain/view"
	"github.com/okian/leagueboard/pkg/logger"
	"github.com/okian/leagueboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Load configuration first: it decides the log format.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}

	if err := logger.InitWith(os.Stdout, cfg.LogFormat); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg, log); err != nil {
		log.Error(ctx, "server failed", logger.Error(err))
		os.Exit(1)
	}
}

// run serves until ctx is cancelled, then shuts down gracefully.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	svc, handler, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
	return nil
}

// build wires the upstream client, the service and every route.
func build(ctx context.Context, cfg *config.Config, log logger.Logger) (*app.Service, http.Handler, error) {
	defaults := view.Defaults{Language: i18n.DefaultLanguage, Season: model.DefaultSeason}
	if lang, ok := i18n.ParseLanguage(cfg.DefaultLanguage); ok {
		defaults.Language = lang
	} else {
		log.Warn(ctx, "unknown default_language; using English", logger.String("default_language", cfg.DefaultLanguage))
	}
	if season, ok := model.ParseSeason(cfg.DefaultSeason); ok {
		defaults.Season = season
	} else {
		log.Warn(ctx, "unknown default_season", logger.String("default_season", cfg.DefaultSeason), logger.String("using", model.DefaultSeason.String()))
	}

	client, err := upstream.New(cfg.UpstreamURL,
		upstream.WithTimeout(cfg.UpstreamTimeout),
		upstream.WithRateLimit(cfg.UpstreamRatePerSec),
		upstream.WithSeasonParam(cfg.SeasonParam),
		upstream.WithUserAgent(cfg.UserAgent),
	)
	if err != nil {
		return nil, nil, err
	}

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithFetcher(client),
		app.WithWorkerCount(cfg.FetchWorkers),
		app.WithQueueSize(cfg.FetchQueueSize),
		app.WithRefreshInterval(cfg.RefreshInterval),
		app.WithDefaultSeason(defaults.Season),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, nil, err
	}

	r := api.NewRouter(log.Named("http"))
	api.NewServer(svc, svc, api.WithDefaults(defaults)).Register(ctx, r)
	swagger.Register(ctx, r)
	site.Register(ctx, r, site.NewHandler(svc, site.WithDefaults(defaults), site.WithLogger(log.Named("site"))))

	log.Info(ctx, "routes registered",
		logger.String("upstream_url", cfg.UpstreamURL),
		logger.String("season_param", cfg.SeasonParam),
		logger.String("default_language", defaults.Language.String()),
	)
	return svc, r, nil
}

// startSystemMetricsUpdater refreshes runtime gauges until ctx is done.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
