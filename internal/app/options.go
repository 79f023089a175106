package service

import (
	"time"

	"github.com/okian/firewatch/internal/domain/geo"
	"github.com/okian/firewatch/internal/viz"
	"github.com/okian/firewatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSourceURL sets the data endpoint.
func WithSourceURL(url string) Option {
	return func(s *Service) {
		if url != "" {
			s.sourceURL = url
		}
	}
}

// WithFetchPolicy sets the per-attempt timeout, attempt count and initial
// backoff of a fetch.
func WithFetchPolicy(timeout time.Duration, attempts int, backoff time.Duration) Option {
	return func(s *Service) {
		if timeout > 0 {
			s.fetchTimeout = timeout
		}
		if attempts > 0 {
			s.fetchAttempts = attempts
		}
		if backoff >= 0 {
			s.fetchBackoff = backoff
		}
	}
}

// WithPlayback sets the playback range and tick interval.
func WithPlayback(anchor time.Time, steps int, interval time.Duration) Option {
	return func(s *Service) {
		if !anchor.IsZero() {
			s.anchor = anchor
		}
		if steps > 0 {
			s.steps = steps
		}
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithInitialDate sets the day rendered after the first load.
func WithInitialDate(day string) Option {
	return func(s *Service) {
		if day != "" {
			s.initialDate = day
		}
	}
}

// WithDefaultViewport sets the map view used when nothing is drawn.
func WithDefaultViewport(v geo.Viewport) Option {
	return func(s *Service) {
		s.viewport = v
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSource replaces the HTTP data source.
func WithSource(src viz.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.source = src
		}
	}
}

// WithTickerFactory replaces the playback ticker.
func WithTickerFactory(f viz.TickerFactory) Option {
	return func(s *Service) {
		if f != nil {
			s.newTicker = f
		}
	}
}
