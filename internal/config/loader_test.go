package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/firewatch/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9080")
				convey.So(cfg.FetchMaxAttempts, convey.ShouldEqual, 3)
				convey.So(cfg.PlaybackIntervalMS, convey.ShouldEqual, 1000)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("FIREWATCH_ADDR", ":8080")
			_ = os.Setenv("FIREWATCH_SOURCE_URL", "http://data.example:5000/api/fire_aqi_data")
			_ = os.Setenv("FIREWATCH_SERVE_FIXTURE", "false")
			_ = os.Setenv("FIREWATCH_FETCH_MAX_ATTEMPTS", "5")
			_ = os.Setenv("FIREWATCH_PLAYBACK_INTERVAL_MS", "250")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.SourceURL, convey.ShouldEqual, "http://data.example:5000/api/fire_aqi_data")
				convey.So(cfg.ServeFixture, convey.ShouldBeFalse)
				convey.So(cfg.FetchMaxAttempts, convey.ShouldEqual, 5)
				convey.So(cfg.PlaybackIntervalMS, convey.ShouldEqual, 250)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
initial_date: "2025-01-10"
playback_steps: 10
map_zoom: 11
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FIREWATCH_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values are merged over defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.InitialDate, convey.ShouldEqual, "2025-01-10")
				convey.So(cfg.PlaybackSteps, convey.ShouldEqual, 10)
				convey.So(cfg.MapZoom, convey.ShouldEqual, 11)
				convey.So(cfg.AnchorDate, convey.ShouldEqual, "2025-01-07")
			})
		})

		convey.Convey("When both file and env are set", func() {
			tmpFile := createTempConfigFile(`
addr: ":9090"
fetch_backoff_ms: 100
`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FIREWATCH_CONFIG", tmpFile)
			_ = os.Setenv("FIREWATCH_ADDR", ":7070")

			cfg, err := config.Load(ctx)

			convey.Convey("Then env wins over file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.FetchBackoffMS, convey.ShouldEqual, 100)
			})
		})

		convey.Convey("When the YAML file is invalid", func() {
			tmpFile := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(tmpFile) }()
			_ = os.Setenv("FIREWATCH_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When the config file does not exist", func() {
			_ = os.Setenv("FIREWATCH_CONFIG", "/non/existent/file.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(cfg, convey.ShouldBeNil)
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a numeric env var is not a number", func() {
			_ = os.Setenv("FIREWATCH_FETCH_MAX_ATTEMPTS", "many")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

func TestConfigValidation(t *testing.T) {
	convey.Convey("Given config validation", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		cases := []struct {
			name string
			key  string
			val  string
			msg  string
		}{
			{"empty addr", "FIREWATCH_ADDR", "", "addr must not be empty"},
			{"relative source url", "FIREWATCH_SOURCE_URL", "/api/fire_aqi_data", "not an absolute URL"},
			{"zero attempts", "FIREWATCH_FETCH_MAX_ATTEMPTS", "0", "fetch_max_attempts"},
			{"zero interval", "FIREWATCH_PLAYBACK_INTERVAL_MS", "0", "playback_interval_ms"},
			{"zero steps", "FIREWATCH_PLAYBACK_STEPS", "0", "playback_steps"},
			{"bad anchor", "FIREWATCH_ANCHOR_DATE", "07/01/2025", "anchor_date"},
			{"bad initial date", "FIREWATCH_INITIAL_DATE", "2025-13-01", "initial_date"},
			{"zoom out of range", "FIREWATCH_MAP_ZOOM", "25", "map_zoom"},
		}

		for _, tc := range cases {
			convey.Convey("When "+tc.name, func() {
				_ = os.Setenv(tc.key, tc.val)

				cfg, err := config.Load(ctx)

				convey.Convey("Then a validation error is returned", func() {
					convey.So(cfg, convey.ShouldBeNil)
					convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
					convey.So(err.Error(), convey.ShouldContainSubstring, tc.msg)
				})
			})
		}
	})
}

func clearConfigEnvVars() {
	for _, envVar := range []string{
		"FIREWATCH_CONFIG",
		"FIREWATCH_ADDR",
		"FIREWATCH_SOURCE_URL",
		"FIREWATCH_SERVE_FIXTURE",
		"FIREWATCH_FETCH_MAX_ATTEMPTS",
		"FIREWATCH_FETCH_BACKOFF_MS",
		"FIREWATCH_PLAYBACK_INTERVAL_MS",
		"FIREWATCH_PLAYBACK_STEPS",
		"FIREWATCH_ANCHOR_DATE",
		"FIREWATCH_INITIAL_DATE",
		"FIREWATCH_MAP_ZOOM",
	} {
		_ = os.Unsetenv(envVar)
	}
}

func createTempConfigFile(content string) string {
	tmpFile, err := os.CreateTemp("", "firewatch-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		panic(err)
	}
	if err := tmpFile.Close(); err != nil {
		panic(err)
	}
	return tmpFile.Name()
}
