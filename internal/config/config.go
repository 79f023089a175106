// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New(ctx) builds a Config holding the defaults.
// - Load(ctx) layers an optional YAML file and FIREWATCH_* env vars on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// SourceURL is the data endpoint returning the fire/AQI payload.
	SourceURL string `koanf:"source_url"`

	// ServeFixture mounts the bundled mock payload at /api/fire_aqi_data.
	ServeFixture bool `koanf:"serve_fixture"`

	// FetchTimeoutMS bounds a single HTTP attempt against SourceURL.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// FetchMaxAttempts bounds the attempts of one load, retries included.
	FetchMaxAttempts int `koanf:"fetch_max_attempts"`

	// FetchBackoffMS is the initial retry delay; it grows exponentially.
	FetchBackoffMS int `koanf:"fetch_backoff_ms"`

	// InitialDate is rendered right after a successful load (YYYY-MM-DD).
	InitialDate string `koanf:"initial_date"`

	// AnchorDate is day 0 of the playback range (YYYY-MM-DD).
	AnchorDate string `koanf:"anchor_date"`

	// PlaybackSteps is the last cursor value; the range spans steps+1 days.
	PlaybackSteps int `koanf:"playback_steps"`

	// PlaybackIntervalMS is the playback tick period.
	PlaybackIntervalMS int `koanf:"playback_interval_ms"`

	// MapCenterLat, MapCenterLon and MapZoom set the default map view.
	MapCenterLat float64 `koanf:"map_center_lat"`
	MapCenterLon float64 `koanf:"map_center_lon"`
	MapZoom      int     `koanf:"map_zoom"`
}

// New creates a Config holding the defaults. The context is reserved for
// future loaders and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		SourceURL:          "http://localhost:9080/api/fire_aqi_data",
		ServeFixture:       true,
		FetchTimeoutMS:     10_000,
		FetchMaxAttempts:   3,
		FetchBackoffMS:     500,
		InitialDate:        "2025-01-07",
		AnchorDate:         "2025-01-07",
		PlaybackSteps:      23,
		PlaybackIntervalMS: 1000,
		MapCenterLat:       34.0522,
		MapCenterLon:       -118.2437,
		MapZoom:            9,
	}
}
