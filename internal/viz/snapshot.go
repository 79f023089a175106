package viz

import (
	"time"

	"github.com/okian/firewatch/internal/adapters/mapview"
	"github.com/okian/firewatch/internal/domain/model"
)

// AQIPoint is one day of the AQI series.
type AQIPoint struct {
	Date  string `json:"date"`
	Value int    `json:"value"`
}

// Snapshot is a copy of the session state.
type Snapshot struct {
	Date        string           `json:"date"`
	State       string           `json:"state"`
	Playing     bool             `json:"playing"`
	PlayLabel   string           `json:"play_label"`
	Cursor      int              `json:"cursor"`
	Session     string           `json:"session,omitempty"`
	RangeStart  string           `json:"range_start"`
	RangeEnd    string           `json:"range_end"`
	Fires       FireSummary      `json:"fires"`
	AQI         AQISummary       `json:"aqi"`
	Overlays    []mapview.Circle `json:"overlays"`
	Series      []AQIPoint       `json:"aqi_series"`
	Loaded      bool             `json:"loaded"`
	LoadedAt    time.Time        `json:"loaded_at,omitempty"`
	Loads       int              `json:"loads"`
	FireRecords int              `json:"fire_records"`
	AQIRecords  int              `json:"aqi_records"`
	LastError   string           `json:"last_error,omitempty"`
}

// Snapshot returns a copy of the current session state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	label := PlayLabel
	if c.state == Playing {
		label = PauseLabel
	}
	s := Snapshot{
		Date:        c.current,
		State:       c.state.String(),
		Playing:     c.state == Playing,
		PlayLabel:   label,
		Cursor:      c.cursor,
		Session:     c.session,
		RangeStart:  model.FormatDay(c.anchor),
		RangeEnd:    model.FormatDay(c.anchor.AddDate(0, 0, c.steps)),
		Fires:       c.fires,
		AQI:         c.aqi,
		Overlays:    append([]mapview.Circle{}, c.drawn...),
		Series:      make([]AQIPoint, 0, len(c.data.AQI)),
		Loaded:      c.loaded,
		LoadedAt:    c.loadedAt,
		Loads:       c.loads,
		FireRecords: len(c.data.Fires),
		AQIRecords:  len(c.data.AQI),
		LastError:   c.lastErr,
	}
	for _, r := range c.data.AQI {
		s.Series = append(s.Series, AQIPoint{Date: r.Date, Value: r.Value})
	}
	return s
}

// Days returns every day of the playback range.
func (c *Controller) Days() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, c.steps+1)
	for i := 0; i <= c.steps; i++ {
		out = append(out, model.FormatDay(c.anchor.AddDate(0, 0, i)))
	}
	return out
}
