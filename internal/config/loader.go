package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "FIREWATCH_"
	envConfigFile = "FIREWATCH_CONFIG"
	dayLayout     = "2006-01-02"
	maxZoom       = 19
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if FIREWATCH_CONFIG is set
//  3. env (prefix FIREWATCH_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)
	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// FIREWATCH_SOURCE_URL -> source_url; underscores are kept to match the tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, strings.ToLower(envPrefix))
	})
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

// Validate checks the invariants the rest of the service relies on.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SourceURL == "":
		return fmt.Errorf("%w: source_url must not be empty", ErrInvalidConfig)
	case c.FetchMaxAttempts < 1:
		return fmt.Errorf("%w: fetch_max_attempts must be at least 1", ErrInvalidConfig)
	case c.FetchTimeoutMS <= 0:
		return fmt.Errorf("%w: fetch_timeout_ms must be positive", ErrInvalidConfig)
	case c.FetchBackoffMS < 0:
		return fmt.Errorf("%w: fetch_backoff_ms must not be negative", ErrInvalidConfig)
	case c.PlaybackSteps < 1:
		return fmt.Errorf("%w: playback_steps must be at least 1", ErrInvalidConfig)
	case c.PlaybackIntervalMS <= 0:
		return fmt.Errorf("%w: playback_interval_ms must be positive", ErrInvalidConfig)
	case c.MapZoom < 0 || c.MapZoom > maxZoom:
		return fmt.Errorf("%w: map_zoom must be within [0, %d]", ErrInvalidConfig, maxZoom)
	}
	if u, err := url.Parse(c.SourceURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: source_url %q is not an absolute URL", ErrInvalidConfig, c.SourceURL)
	}
	if _, err := time.Parse(dayLayout, c.InitialDate); err != nil {
		return fmt.Errorf("%w: initial_date: %w", ErrInvalidConfig, err)
	}
	if _, err := time.Parse(dayLayout, c.AnchorDate); err != nil {
		return fmt.Errorf("%w: anchor_date: %w", ErrInvalidConfig, err)
	}
	return nil
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// FetchBackoff returns FetchBackoffMS as a duration.
func (c *Config) FetchBackoff() time.Duration {
	return time.Duration(c.FetchBackoffMS) * time.Millisecond
}

// PlaybackInterval returns PlaybackIntervalMS as a duration.
func (c *Config) PlaybackInterval() time.Duration {
	return time.Duration(c.PlaybackIntervalMS) * time.Millisecond
}
