// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"time"
)

// DayLayout is the calendar-day format used on the wire and for matching.
const DayLayout = "2006-01-02"

// FireRecord is one wildfire incident snapshot for a given day.
type FireRecord struct {
	Name      string  `json:"name"`
	Date      string  `json:"date"` // YYYY-MM-DD
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Size      float64 `json:"size"` // acres
}

// AQIRecord is the air quality reading of one day.
type AQIRecord struct {
	Date      string   `json:"date"`
	Value     int      `json:"value"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// Dataset is the in-memory copy of a successful fetch.
type Dataset struct {
	Fires []FireRecord
	AQI   []AQIRecord
}

// FiresOn returns the fire records of day in payload order.
func (d Dataset) FiresOn(day string) []FireRecord {
	var out []FireRecord
	for _, f := range d.Fires {
		if f.Date == day {
			out = append(out, f)
		}
	}
	return out
}

// AQIOn returns the first AQI record of day.
func (d Dataset) AQIOn(day string) (AQIRecord, bool) {
	for _, r := range d.AQI {
		if r.Date == day {
			return r, true
		}
	}
	return AQIRecord{}, false
}

// Payload mirrors the JSON body of GET /api/fire_aqi_data.
type Payload struct {
	Status   string       `json:"status"`
	Message  string       `json:"message,omitempty"`
	FireData []FireRecord `json:"fire_data"`
	AQIData  []AQIRecord  `json:"aqi_data"`
}

// StatusSuccess marks a successful payload.
const StatusSuccess = "success"

// Succeeded reports whether the payload carries the success flag.
func (p Payload) Succeeded() bool {
	return p.Status == StatusSuccess
}

// Dataset converts the payload into a Dataset. Missing arrays become empty.
func (p Payload) Dataset() Dataset {
	ds := Dataset{Fires: p.FireData, AQI: p.AQIData}
	if ds.Fires == nil {
		ds.Fires = []FireRecord{}
	}
	if ds.AQI == nil {
		ds.AQI = []AQIRecord{}
	}
	return ds
}

// ParseDay parses a YYYY-MM-DD string into UTC midnight.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DayLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDay, s)
	}
	return t, nil
}

// FormatDay returns the calendar-day component of t in UTC.
func FormatDay(t time.Time) string {
	return t.UTC().Format(DayLayout)
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
