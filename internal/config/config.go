// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config populated with defaults.
// - Load(ctx) layers defaults, an optional .env file, an optional YAML file and env vars.
// - Validation failures wrap ErrInvalidConfig; provider failures wrap ErrLoadConfig.
package config

import (
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// UpstreamURL is the endpoint returning the JSON array of player records.
	UpstreamURL string `koanf:"upstream_url"`

	// SeasonParam names the query parameter carrying the selected season.
	// Empty disables sending the season.
	SeasonParam string `koanf:"season_param"`

	// UpstreamTimeout bounds a single upstream GET.
	UpstreamTimeout time.Duration `koanf:"upstream_timeout"`

	// UpstreamRatePerSec caps outbound requests per second.
	UpstreamRatePerSec float64 `koanf:"upstream_rate_per_sec"`

	// UserAgent is sent with every upstream request.
	UserAgent string `koanf:"user_agent"`

	// RefreshInterval is how old a season's data may get before a page view
	// triggers a new fetch. Zero fetches only when a season has no data.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// FetchQueueSize bounds pending fetch requests.
	FetchQueueSize int `koanf:"fetch_queue_size"`

	// FetchWorkers sets the number of fetch workers.
	FetchWorkers int `koanf:"fetch_workers"`

	// DefaultSeason is selected when a request names no valid season.
	DefaultSeason string `koanf:"default_season"`

	// DefaultLanguage is used when neither ?lang nor Accept-Language decide.
	DefaultLanguage string `koanf:"default_language"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		LogFormat:          "text",
		Addr:               ":9080",
		UpstreamURL:        "https://king-prawn-app-b4hn4.ondigitalocean.app/leaderboard",
		SeasonParam:        "season",
		UpstreamTimeout:    10 * time.Second,
		UpstreamRatePerSec: 5,
		UserAgent:          "leagueboard/1.0",
		RefreshInterval:    time.Minute,
		FetchQueueSize:     64,
		FetchWorkers:       1,
		DefaultSeason:      "2025",
		DefaultLanguage:    "en",
	}
}
