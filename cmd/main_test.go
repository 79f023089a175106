package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/okian/firewatch/internal/adapters/fixture"
	"github.com/okian/firewatch/internal/config"
	"github.com/okian/firewatch/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func clearEnv() {
	for _, k := range []string{"FIREWATCH_CONFIG", "FIREWATCH_ADDR", "FIREWATCH_SOURCE_URL", "FIREWATCH_SERVE_FIXTURE", "FIREWATCH_ANCHOR_DATE"} {
		_ = os.Unsetenv(k)
	}
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the root command", t, func() {
		root := newRootCmd()

		convey.Convey("Then every subcommand is registered", func() {
			names := map[string]bool{}
			for _, c := range root.Commands() {
				names[c.Name()] = true
			}
			convey.So(names["tui"], convey.ShouldBeTrue)
			convey.So(names["summary"], convey.ShouldBeTrue)
			convey.So(names["fixture"], convey.ShouldBeTrue)
		})

		convey.Convey("When summary runs on the built-in data", func() {
			clearEnv()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&bytes.Buffer{})
			root.SetArgs([]string{"summary", "--fixture", "--date", "2025-01-10"})

			err := root.Execute()

			convey.Convey("Then both panels are printed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out.String(), convey.ShouldContainSubstring, "Active Fires: 3")
				convey.So(out.String(), convey.ShouldContainSubstring, "Total Area: 10,800 acres")
				convey.So(out.String(), convey.ShouldContainSubstring, "AQI Level: 500")
				convey.So(out.String(), convey.ShouldContainSubstring, "Status: Hazardous")
			})
		})

		convey.Convey("When summary is given a malformed date", func() {
			clearEnv()
			root.SetOut(&bytes.Buffer{})
			root.SetErr(&bytes.Buffer{})
			root.SetArgs([]string{"summary", "--fixture", "--date", "yesterday"})

			convey.Convey("Then it fails", func() {
				convey.So(root.Execute(), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestSummarize(t *testing.T) {
	convey.Convey("Given a data endpoint serving the fixture", t, func() {
		clearEnv()
		if err := logger.InitWithWriter(&bytes.Buffer{}); err != nil {
			panic(err)
		}
		srv := httptest.NewServer(fixture.Handler())
		defer srv.Close()

		cfg := config.New(context.Background())
		cfg.SourceURL = srv.URL
		cfg.FetchBackoffMS = 0

		convey.Convey("When the first day is summarized over HTTP", func() {
			out, err := summarize(context.Background(), cfg, logger.Get(), "2025-01-07", false)

			convey.Convey("Then the panels match the data", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(out, convey.ShouldContainSubstring, "Active Fires: 1")
				convey.So(out, convey.ShouldContainSubstring, "AQI Level: 125")
			})
		})

		convey.Convey("When the endpoint is down", func() {
			srv.Close()
			_, err := summarize(context.Background(), cfg, logger.Get(), "2025-01-07", false)

			convey.Convey("Then the fetch error is returned", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestServiceWiring(t *testing.T) {
	convey.Convey("Given a configuration serving its own fixture", t, func() {
		clearEnv()
		if err := logger.InitWithWriter(&bytes.Buffer{}); err != nil {
			panic(err)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		cfg := config.New(ctx)
		svc, err := newService(cfg, logger.Get())
		convey.So(err, convey.ShouldBeNil)
		defer svc.Stop()

		mux := newMux(ctx, cfg, svc)

		convey.Convey("Then every surface is routed", func() {
			for path, want := range map[string]int{
				"/":                    http.StatusFound,
				"/dashboard":           http.StatusOK,
				"/api/view":            http.StatusOK,
				"/api/overlays":        http.StatusOK,
				"/api/fire_aqi_data":   http.StatusOK,
				"/openapi.yaml":        http.StatusOK,
				"/api-docs":            http.StatusOK,
				"/healthz":             http.StatusOK,
				"/stats":               http.StatusOK,
				"/static/dashboard.js": http.StatusOK,
			} {
				w := httptest.NewRecorder()
				mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
				convey.So(w.Code, convey.ShouldEqual, want)
			}
		})

		convey.Convey("When the fixture is disabled", func() {
			cfg.ServeFixture = false
			mux := newMux(ctx, cfg, svc)
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/fire_aqi_data", nil))

			convey.Convey("Then the data route is absent", func() {
				convey.So(w.Code, convey.ShouldEqual, http.StatusNotFound)
			})
		})

		convey.Convey("When the anchor date is malformed", func() {
			cfg.AnchorDate = "soon"
			_, err := newService(cfg, logger.Get())

			convey.Convey("Then the service is not built", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func TestSystemMetrics(t *testing.T) {
	convey.Convey("Given the system metrics updater", t, func() {
		convey.Convey("Then a single update does not panic", func() {
			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
		})

		convey.Convey("Then the loop exits with its context", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})
	})
}
