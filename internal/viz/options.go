package viz

import (
	"time"

	"github.com/okian/firewatch/pkg/logger"
)

// Option applies a configuration option to the Controller.
type Option func(*Controller)

// WithSource sets the data source read by Load.
func WithSource(s Source) Option {
	return func(c *Controller) {
		c.source = s
	}
}

// WithLayer sets the map layer overlays are drawn on.
func WithLayer(l Layer) Option {
	return func(c *Controller) {
		if l != nil {
			c.layer = l
		}
	}
}

// WithPanels sets the sink receiving panel updates.
func WithPanels(p Panels) Option {
	return func(c *Controller) {
		if p != nil {
			c.panels = p
		}
	}
}

// WithTickerFactory replaces the playback ticker.
func WithTickerFactory(f TickerFactory) Option {
	return func(c *Controller) {
		if f != nil {
			c.newTicker = f
		}
	}
}

// WithInterval sets the playback tick interval.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithAnchor sets the first day of the playback range.
func WithAnchor(day time.Time) Option {
	return func(c *Controller) {
		if !day.IsZero() {
			c.anchor = day
		}
	}
}

// WithSteps sets how many days playback advances past the anchor.
func WithSteps(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.steps = n
		}
	}
}

// WithInitialDate sets the day rendered after the first successful load.
func WithInitialDate(day string) Option {
	return func(c *Controller) {
		if day != "" {
			c.initial = day
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}
