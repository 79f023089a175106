package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/firewatch/internal/adapters/fixture"
	"github.com/okian/firewatch/internal/adapters/http/api"
	"github.com/okian/firewatch/internal/adapters/http/site"
	"github.com/okian/firewatch/internal/adapters/http/swagger"
	app "github.com/okian/firewatch/internal/app"
	"github.com/okian/firewatch/internal/config"
	"github.com/okian/firewatch/internal/domain/geo"
	"github.com/okian/firewatch/internal/domain/model"
	"github.com/okian/firewatch/pkg/logger"
	"github.com/okian/firewatch/pkg/metrics"
	"github.com/spf13/cobra"
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

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "firewatch",
		Short: "Wildfire and air quality dashboard",
		Long: `firewatch plots wildfire incidents and AQI readings for a selected day
and plays them back over a fixed date range. By default it serves the HTML
dashboard and its JSON API.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}

	addTUICmd(rootCmd)
	addSummaryCmd(rootCmd)
	addFixtureCmd(rootCmd)
	return rootCmd
}

// setup initializes logging on w and loads the configuration.
func setup(ctx context.Context, w io.Writer) (*config.Config, logger.Logger, error) {
	if err := logger.InitWithWriter(w); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logging: %w", err)
	}
	log := logger.Get()

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, log, nil
}

// signalContext derives a context cancelled on SIGINT/SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
}

// newService builds the dashboard service from cfg.
func newService(cfg *config.Config, log logger.Logger) (*app.Service, error) {
	anchor, err := model.ParseDay(cfg.AnchorDate)
	if err != nil {
		return nil, err
	}
	return app.New(
		app.WithLogger(log),
		app.WithSourceURL(cfg.SourceURL),
		app.WithFetchPolicy(cfg.FetchTimeout(), cfg.FetchMaxAttempts, cfg.FetchBackoff()),
		app.WithPlayback(anchor, cfg.PlaybackSteps, cfg.PlaybackInterval()),
		app.WithInitialDate(cfg.InitialDate),
		app.WithDefaultViewport(geo.Viewport{
			Center: geo.LatLng{Lat: cfg.MapCenterLat, Lng: cfg.MapCenterLon},
			Zoom:   cfg.MapZoom,
		}),
	), nil
}

// newMux registers every HTTP route of the service.
func newMux(ctx context.Context, cfg *config.Config, svc *app.Service) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	site.Register(ctx, mux)
	if cfg.ServeFixture {
		fixture.Register(mux)
	}
	api.NewServer(svc, svc).Register(ctx, mux)
	return mux
}

func newHTTPServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

// listen binds addr and serves srv in the background. The returned channel
// reports a serve failure.
func listen(ctx context.Context, log logger.Logger, srv *http.Server, addr string) (<-chan error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	return errCh, nil
}

func shutdown(log logger.Logger, srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	log.Info(ctx, "server stopped")
}

// runServe runs the HTTP dashboard until a signal arrives.
func runServe(parent context.Context) error {
	ctx, stop := signalContext(parent)
	defer stop()

	cfg, log, err := setup(ctx, os.Stdout)
	if err != nil {
		return err
	}

	svc, err := newService(cfg, log)
	if err != nil {
		return err
	}

	srv := newHTTPServer(newMux(ctx, cfg, svc))
	// The listener comes first so a self-hosted fixture answers the initial load.
	errCh, err := listen(ctx, log, srv, cfg.Addr)
	if err != nil {
		return err
	}
	if err := svc.Start(ctx); err != nil {
		shutdown(log, srv)
		return fmt.Errorf("failed to start service: %w", err)
	}
	defer svc.Stop()

	go startSystemMetricsUpdater(ctx)

	select {
	case <-ctx.Done():
		log.Info(ctx, "shutting down server...")
	case err := <-errCh:
		if err != nil {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			return err
		}
	}
	shutdown(log, srv)
	return nil
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
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

// updateSystemMetrics updates system-level metrics.
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
