// Package viz implements the visualization controller: it keeps the map
// overlays and the two summary panels consistent with the selected day, and
// drives the playback animation over the fixed date range.
package viz

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/okian/firewatch/internal/adapters/mapview"
	"github.com/okian/firewatch/internal/domain/aqi"
	"github.com/okian/firewatch/internal/domain/geo"
	"github.com/okian/firewatch/internal/domain/model"
	"github.com/okian/firewatch/pkg/logger"
	"github.com/okian/firewatch/pkg/metrics"
)

// Source provides the dataset.
type Source interface {
	Fetch(ctx context.Context) (model.Dataset, error)
}

// Layer is the map the controller draws on.
type Layer interface {
	AddCircle(c mapview.Circle) mapview.Handle
	Remove(h mapview.Handle) bool
}

// State is the playback state.
type State int

// Playback states.
const (
	Idle State = iota
	Playing
)

// String returns the state name.
func (s State) String() string {
	if s == Playing {
		return "playing"
	}
	return "idle"
}

// Defaults of the playback range.
const (
	defaultInterval = time.Second
	defaultSteps    = 23
	defaultInitial  = "2025-01-07"
)

var defaultAnchor = time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC)

// Controller owns the session state of one dashboard. All operations run to
// completion under a single mutex.
type Controller struct {
	mu sync.Mutex

	source    Source
	layer     Layer
	panels    Panels
	newTicker TickerFactory
	interval  time.Duration
	anchor    time.Time
	steps     int
	initial   string
	log       logger.Logger

	data     model.Dataset
	loaded   bool
	loadedAt time.Time
	loads    int
	lastErr  string

	current  string
	overlays []mapview.Handle
	drawn    []mapview.Circle
	fires    FireSummary
	aqi      AQISummary

	state   State
	cursor  int
	session string
	stop    chan struct{}
	wg      sync.WaitGroup
	closed  bool
}

// New creates a controller. Without WithLayer or WithPanels it draws on a
// private layer and board.
func New(opts ...Option) *Controller {
	c := &Controller{
		newTicker: NewTimeTicker,
		interval:  defaultInterval,
		anchor:    defaultAnchor,
		steps:     defaultSteps,
		initial:   defaultInitial,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.layer == nil {
		c.layer = mapview.New()
	}
	if c.panels == nil {
		c.panels = NewBoard()
	}
	if c.log == nil {
		c.log = logger.Nop()
	}
	c.anchor = model.Day(c.anchor)
	c.panels.ShowPlayLabel(PlayLabel)
	return c
}

// Load fetches the dataset once. On failure the error is surfaced on the
// panels and the previous records stay in place. On success both record sets
// are replaced and the selected day is rendered again, or the initial day on
// the first load.
func (c *Controller) Load(ctx context.Context) error {
	if c.source == nil {
		return ErrNoSource
	}
	loadID := uuid.NewString()
	log := c.log.With(logger.String("load_id", loadID))
	log.Debug(ctx, "loading dataset")

	ds, err := c.source.Fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if err != nil {
		c.lastErr = err.Error()
		c.panels.ShowError(c.lastErr)
		metrics.RecordErrorByComponent("viz", "load")
		log.Error(ctx, "load failed, keeping previous data", logger.Error(err))
		return fmt.Errorf("load: %w", err)
	}

	c.data = ds
	c.loaded = true
	c.loadedAt = time.Now()
	c.loads++
	c.lastErr = ""
	c.panels.ShowError("")

	day := c.current
	if day == "" {
		day = c.initial
	}
	c.renderLocked(day)
	log.Info(ctx, "dataset loaded",
		logger.Int("fires", len(ds.Fires)),
		logger.Int("aqi", len(ds.AQI)),
		logger.String("date", day))
	return nil
}

// Render draws the overlays and panels of day. Rendering the same day twice
// yields the same result.
func (c *Controller) Render(day string) error {
	t, err := model.ParseDay(day)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.renderLocked(model.FormatDay(t))
	return nil
}

// SelectDate handles the date picker. Running playback is paused first; a
// day inside the playback range moves the cursor so Play resumes from it.
func (c *Controller) SelectDate(day string) error {
	t, err := model.ParseDay(day)
	if err != nil {
		return fmt.Errorf("select date: %w", err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Playing {
		c.stopLocked()
	}
	if off := c.offset(t); off >= 0 && off <= c.steps {
		c.cursor = off
		metrics.UpdatePlayback(false, c.cursor)
	}
	c.renderLocked(model.FormatDay(t))
	return nil
}

// Play starts playback. It is a no-op while already playing.
func (c *Controller) Play() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return ErrClosed
	}
	if c.state == Playing {
		return nil
	}
	c.state = Playing
	c.session = uuid.NewString()
	c.stop = make(chan struct{})
	c.panels.ShowPlayLabel(PauseLabel)
	metrics.UpdatePlayback(true, c.cursor)

	t := c.newTicker(c.interval)
	c.wg.Add(1)
	go c.run(c.session, t, c.stop)

	c.log.Info(context.Background(), "playback started",
		logger.String("session", c.session),
		logger.Int("cursor", c.cursor))
	return nil
}

// Pause stops playback. It is a no-op while idle.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Playing {
		c.stopLocked()
	}
}

// Toggle is the play/pause button. It returns the resulting state.
func (c *Controller) Toggle() (State, error) {
	c.mu.Lock()
	playing := c.state == Playing
	c.mu.Unlock()
	if playing {
		c.Pause()
		return Idle, nil
	}
	if err := c.Play(); err != nil {
		return Idle, err
	}
	return Playing, nil
}

// Tick performs one playback step as if the ticker fired. It reports false
// when playback is not running.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != Playing {
		return false
	}
	c.stepLocked()
	return true
}

// Close stops playback and waits for the playback goroutine to exit.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.state == Playing {
		c.stopLocked()
	}
	c.closed = true
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Controller) run(session string, t Ticker, stop <-chan struct{}) {
	defer c.wg.Done()
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C():
			c.mu.Lock()
			// ticks of a stopped session are dropped
			if c.state == Playing && c.session == session {
				c.stepLocked()
			}
			c.mu.Unlock()
		}
	}
}

// stepLocked renders anchor + cursor and then advances the cursor. A step that
// finds the cursor at the end of the range resets it and stops playback.
func (c *Controller) stepLocked() {
	metrics.RecordPlaybackTick()
	if c.cursor >= c.steps {
		c.cursor = 0
		c.stopLocked()
		metrics.RecordPlaybackCompletion()
		c.log.Info(context.Background(), "playback completed")
		return
	}
	c.renderLocked(model.FormatDay(c.anchor.AddDate(0, 0, c.cursor)))
	c.cursor++
	metrics.UpdatePlayback(true, c.cursor)
}

func (c *Controller) stopLocked() {
	close(c.stop)
	c.stop = nil
	c.state = Idle
	c.panels.ShowPlayLabel(PlayLabel)
	metrics.UpdatePlayback(false, c.cursor)
	c.log.Info(context.Background(), "playback stopped",
		logger.String("session", c.session),
		logger.Int("cursor", c.cursor))
	c.session = ""
}

func (c *Controller) renderLocked(day string) {
	start := time.Now()

	for _, h := range c.overlays {
		c.layer.Remove(h)
	}
	c.overlays = c.overlays[:0]
	c.drawn = c.drawn[:0]

	fires := FireSummary{Date: day}
	for _, f := range c.data.FiresOn(day) {
		circle := mapview.Circle{
			Name:      f.Name,
			Date:      f.Date,
			Center:    geo.LatLng{Lat: f.Latitude, Lng: f.Longitude},
			RadiusM:   geo.RadiusMeters(f.Size),
			SizeAcres: f.Size,
			Label:     popup(f),
			Style:     mapview.DefaultStyle(),
		}
		c.overlays = append(c.overlays, c.layer.AddCircle(circle))
		c.drawn = append(c.drawn, circle)
		fires.Count++
		fires.TotalAcres += f.Size
	}

	reading := AQISummary{Date: day}
	if rec, ok := c.data.AQIOn(day); ok {
		reading.Available = true
		reading.Value = rec.Value
		reading.Status = aqi.Status(rec.Value)
	}

	c.current = day
	c.fires = fires
	c.aqi = reading
	c.panels.ShowDate(day)
	c.panels.ShowFires(fires)
	c.panels.ShowAQI(reading)

	metrics.RecordRender(float64(time.Since(start).Milliseconds()), fires.Count, fires.TotalAcres, reading.Value)
	c.log.Debug(context.Background(), "rendered",
		logger.String("date", day),
		logger.Int("overlays", fires.Count))
}

// offset returns the playback offset of t from the anchor in days.
func (c *Controller) offset(t time.Time) int {
	return int(model.Day(t).Sub(c.anchor).Hours() / 24)
}

func popup(f model.FireRecord) string {
	return fmt.Sprintf("%s / Size: %s acres / Date: %s", f.Name, humanize.Commaf(f.Size), f.Date)
}
