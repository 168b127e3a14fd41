package fakeupstream

import "time"

// Config holds configuration for the fake upstream.
type Config struct {
	Addr        string        // listen address
	Path        string        // route serving the player array
	SeasonParam string        // query parameter selecting the season
	Players     int           // players generated per season
	Seed        uint64        // base seed; the same seed yields the same data
	Latency     time.Duration // delay added to every response
	FailRate    float64       // share of requests answered with 503, in [0,1]
	Sparse      bool          // drop fields and stringify numbers on some records
}

// DefaultConfig returns the settings used by cmd/fake-upstream.
func DefaultConfig() Config {
	return Config{
		Addr:        ":9090",
		Path:        "/leaderboard",
		SeasonParam: "season",
		Players:     25,
		Seed:        1,
	}
}
