package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/leagueboard/internal/fakeupstream"
	"github.com/okian/leagueboard/pkg/logger"
)

func main() {
	def := fakeupstream.DefaultConfig()
	var (
		addr        = flag.String("addr", def.Addr, "Listen address")
		path        = flag.String("path", def.Path, "Route serving the player array")
		seasonParam = flag.String("season-param", def.SeasonParam, "Query parameter selecting the season")
		players     = flag.Int("players", def.Players, "Players per season")
		seed        = flag.Uint64("seed", def.Seed, "Seed for generated data")
		latency     = flag.Duration("latency", def.Latency, "Delay added to every response")
		failRate    = flag.Float64("fail-rate", def.FailRate, "Share of requests answered with 503")
		sparse      = flag.Bool("sparse", false, "Drop fields and stringify numbers on some records")
		verbose     = flag.Bool("verbose", false, "Enable debug logging")
		help        = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		fakeupstream.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := fakeupstream.Config{
		Addr:        *addr,
		Path:        *path,
		SeasonParam: *seasonParam,
		Players:     *players,
		Seed:        *seed,
		Latency:     *latency,
		FailRate:    *failRate,
		Sparse:      *sparse,
	}
	if err := fakeupstream.Run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "fake upstream failed", logger.Error(err))
		os.Exit(1)
	}
}
