package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Environment variables steering the loader itself.
const (
	EnvPrefix     = "LEAGUEBOARD_"
	EnvConfigFile = EnvPrefix + "CONFIG"
	EnvDotenvFile = EnvPrefix + "DOTENV"

	defaultDotenvFile = ".env"
)

// Load builds a Config by layering defaults, optional files, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. .env file (LEAGUEBOARD_DOTENV, default ".env"); a missing file is ignored
//  3. YAML file if LEAGUEBOARD_CONFIG is set
//  4. env (prefix LEAGUEBOARD_)
//
// The .env file is read as a config layer only; the process environment is
// left untouched.
func Load(_ context.Context) (*Config, error) {
	base := New()

	dotenv := os.Getenv(EnvDotenvFile)
	if dotenv == "" {
		dotenv = defaultDotenvFile
	}
	vars, err := godotenv.Read(dotenv)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, dotenv, err)
	}

	k := koanf.New(".")

	if err := k.Load(dotenvProvider(vars), nil); err != nil {
		return nil, fmt.Errorf("%w: dotenv %s: %w", ErrLoadConfig, dotenv, err)
	}

	path := os.Getenv(EnvConfigFile)
	if path == "" {
		path = vars[EnvConfigFile]
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// LEAGUEBOARD_UPSTREAM_URL -> upstream_url. Keys are flat, so the
	// delimiter is never produced by the mapping.
	envProvider := env.Provider(EnvPrefix, ".", envKey)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// envKey maps LEAGUEBOARD_FETCH_WORKERS to fetch_workers.
func envKey(s string) string {
	return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
}

// dotenvProvider exposes prefixed .env entries as a koanf layer.
type dotenvProvider map[string]string

// ReadBytes is not supported; the values are already parsed.
func (dotenvProvider) ReadBytes() ([]byte, error) {
	return nil, errors.New("dotenv provider does not support ReadBytes")
}

// Read returns the prefixed entries keyed like the env layer.
func (p dotenvProvider) Read() (map[string]any, error) {
	out := make(map[string]any, len(p))
	for k, v := range p {
		if strings.HasPrefix(k, EnvPrefix) {
			out[envKey(k)] = v
		}
	}
	return out, nil
}

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.UpstreamTimeout <= 0:
		return fmt.Errorf("%w: upstream_timeout must be positive", ErrInvalidConfig)
	case c.UpstreamRatePerSec <= 0:
		return fmt.Errorf("%w: upstream_rate_per_sec must be positive", ErrInvalidConfig)
	case c.RefreshInterval < 0:
		return fmt.Errorf("%w: refresh_interval must not be negative", ErrInvalidConfig)
	case c.FetchQueueSize < 1:
		return fmt.Errorf("%w: fetch_queue_size must be at least 1", ErrInvalidConfig)
	case c.FetchWorkers < 1:
		return fmt.Errorf("%w: fetch_workers must be at least 1", ErrInvalidConfig)
	}

	u, err := url.Parse(c.UpstreamURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: upstream_url must be an absolute http(s) URL", ErrInvalidConfig)
	}
	return nil
}
