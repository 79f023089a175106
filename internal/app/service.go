// Package service wires the visualization controller, the map layer and the
// data source into the dependencies required by the HTTP API and the
// terminal dashboard.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/firewatch/internal/adapters/mapview"
	"github.com/okian/firewatch/internal/adapters/source"
	"github.com/okian/firewatch/internal/domain/geo"
	"github.com/okian/firewatch/internal/viz"
	"github.com/okian/firewatch/pkg/logger"
	"github.com/paulmach/orb/geojson"
)

// Service owns one dashboard session.
type Service struct {
	mu sync.RWMutex

	// Configuration
	sourceURL     string
	fetchTimeout  time.Duration
	fetchAttempts int
	fetchBackoff  time.Duration
	anchor        time.Time
	steps         int
	interval      time.Duration
	initialDate   string
	viewport      geo.Viewport

	// Components
	source    viz.Source
	newTicker viz.TickerFactory
	layer     *mapview.Layer
	board     *viz.Board
	ctrl      *viz.Controller

	// State
	started   bool
	stopped   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a Service. Components are built immediately so every
// method is usable before Start.
func New(opts ...Option) *Service {
	s := &Service{
		sourceURL:     "http://localhost:9080/api/fire_aqi_data",
		fetchTimeout:  10 * time.Second,
		fetchAttempts: 3,
		fetchBackoff:  500 * time.Millisecond,
		anchor:        time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC),
		steps:         23,
		interval:      time.Second,
		initialDate:   "2025-01-07",
		viewport:      geo.Viewport{Center: geo.LatLng{Lat: 34.0522, Lng: -118.2437}, Zoom: 9},
		newTicker:     viz.NewTimeTicker,
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Nop()
	}
	if s.source == nil {
		s.source = source.New(s.sourceURL,
			source.WithTimeout(s.fetchTimeout),
			source.WithMaxAttempts(s.fetchAttempts),
			source.WithBackoff(s.fetchBackoff),
			source.WithLogger(s.logger.Named("source")),
		)
	}
	s.layer = mapview.New(mapview.WithDefaultViewport(s.viewport))
	s.board = viz.NewBoard()
	s.ctrl = viz.New(
		viz.WithSource(s.source),
		viz.WithLayer(s.layer),
		viz.WithPanels(s.board),
		viz.WithTickerFactory(s.newTicker),
		viz.WithInterval(s.interval),
		viz.WithAnchor(s.anchor),
		viz.WithSteps(s.steps),
		viz.WithInitialDate(s.initialDate),
		viz.WithLogger(s.logger.Named("viz")),
	)
	return s
}

// Start performs the initial load. A failed load is logged and surfaced on
// the board; the service still starts with empty data.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.startedAt = time.Now()
	s.mu.Unlock()

	s.logger.Info(ctx, "starting dashboard service...",
		logger.String("source", s.sourceURL),
		logger.Duration("interval", s.interval))

	if err := s.ctrl.Load(ctx); err != nil {
		s.logger.Warn(ctx, "initial load failed", logger.Error(err))
	}

	s.logger.Info(ctx, "dashboard service started")
	return nil
}

// Stop stops playback and releases the controller.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping dashboard service...")
	s.ctrl.Close()
	s.started = false
	s.stopped = true
	s.logger.Info(context.Background(), "dashboard service stopped")
}

// Controller returns the session controller.
func (s *Service) Controller() *viz.Controller { return s.ctrl }

// Board returns the panel board.
func (s *Service) Board() *viz.Board { return s.board }

// Snapshot returns the current session state.
func (s *Service) Snapshot() viz.Snapshot { return s.ctrl.Snapshot() }

// SelectDate selects a day, pausing playback.
func (s *Service) SelectDate(day string) error { return s.ctrl.SelectDate(day) }

// Play starts playback.
func (s *Service) Play() error { return s.ctrl.Play() }

// Pause stops playback.
func (s *Service) Pause() { s.ctrl.Pause() }

// Toggle flips playback.
func (s *Service) Toggle() (viz.State, error) { return s.ctrl.Toggle() }

// Load fetches the dataset again.
func (s *Service) Load(ctx context.Context) error { return s.ctrl.Load(ctx) }

// Reload is Load under the name the HTTP API uses.
func (s *Service) Reload(ctx context.Context) error { return s.ctrl.Load(ctx) }

// Overlays returns the drawn circles as GeoJSON.
func (s *Service) Overlays() *geojson.FeatureCollection { return s.layer.FeatureCollection() }

// Viewport returns the map view fitting the drawn circles.
func (s *Service) Viewport() geo.Viewport { return s.layer.Viewport() }

// sourceName reports the URL of the configured source, or "custom" for an
// injected source that does not expose one.
func (s *Service) sourceName() string {
	if u, ok := s.source.(interface{ URL() string }); ok {
		return u.URL()
	}
	return "custom"
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	started, startedAt := s.started, s.startedAt
	s.mu.RUnlock()

	snap := s.ctrl.Snapshot()
	stats := map[string]interface{}{
		"started":      started,
		"source":       s.sourceName(),
		"date":         snap.Date,
		"state":        snap.State,
		"cursor":       snap.Cursor,
		"loads":        snap.Loads,
		"fire_records": snap.FireRecords,
		"aqi_records":  snap.AQIRecords,
		"overlays":     s.layer.Len(),
	}
	if started {
		stats["uptime_seconds"] = int64(time.Since(startedAt).Seconds())
	}
	if snap.LastError != "" {
		stats["last_error"] = snap.LastError
	}
	return stats
}
