package fakeupstream

import "os"

// ShowHelp prints usage information for the fake upstream tool.
func ShowHelp() {
	os.Stdout.WriteString(`Leagueboard Fake Upstream
=========================

Serves generated player statistics in the shape of the real leaderboard
endpoint, one deterministic list per season.

Usage:
  go run ./cmd/fake-upstream [options]

Options:
  -addr string
        Listen address (default ":9090")
  -path string
        Route serving the player array (default "/leaderboard")
  -season-param string
        Query parameter selecting the season (default "season")
  -players int
        Players per season (default 25)
  -seed uint
        Seed for generated data (default 1)
  -latency duration
        Delay added to every response (default 0)
  -fail-rate float
        Share of requests answered with 503 (default 0)
  -sparse
        Drop fields and stringify numbers on some records
  -help
        Show this help message

Example:
  go run ./cmd/fake-upstream -players 100 -latency 300ms -fail-rate 0.1 &
  LEAGUEBOARD_UPSTREAM_URL=http://localhost:9090/leaderboard go run ./cmd
`)
}
