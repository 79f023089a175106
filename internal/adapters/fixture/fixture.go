// Package fixture provides the mock fire/AQI payload used for development
// and tests, and an HTTP handler serving it at /api/fire_aqi_data.
package fixture

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/okian/firewatch/internal/domain/model"
)

// Path is the route of the data endpoint.
const Path = "/api/fire_aqi_data"

// AQI series parameters.
const (
	aqiDays         = 24
	aqiBase         = 50
	aqiCycle        = 5
	aqiCycleStep    = 25
	aqiPerFire      = 75
	aqiMultiFireMul = 0.5
	aqiCap          = 500
)

// AQI readings are pinned to the Los Angeles city center.
var (
	laLatitude  = 34.0522
	laLongitude = -118.2437
)

var start = time.Date(2025, time.January, 7, 0, 0, 0, 0, time.UTC)

type snapshot struct {
	date     string
	lat, lon float64
	acres    float64
}

type track struct {
	name      string
	snapshots []snapshot
}

var tracks = []track{
	{
		name: "Palisades Fire",
		snapshots: []snapshot{
			{"2025-01-07", 34.0522, -118.5536, 1200},
			{"2025-01-08", 34.0530, -118.5540, 3500},
			{"2025-01-09", 34.0535, -118.5545, 5000},
			{"2025-01-10", 34.0540, -118.5550, 6800},
			{"2025-01-11", 34.0545, -118.5555, 7500},
			{"2025-01-12", 34.0550, -118.5560, 8200},
		},
	},
	{
		name: "Eaton Fire",
		snapshots: []snapshot{
			{"2025-01-09", 34.2468, -118.3029, 800},
			{"2025-01-10", 34.2472, -118.3035, 2500},
			{"2025-01-11", 34.2480, -118.3040, 4200},
			{"2025-01-12", 34.2485, -118.3045, 5800},
			{"2025-01-13", 34.2490, -118.3050, 6500},
			{"2025-01-14", 34.2495, -118.3055, 7200},
		},
	},
	{
		name: "Hughes Fire",
		snapshots: []snapshot{
			{"2025-01-10", 34.4897, -118.5259, 1500},
			{"2025-01-11", 34.4900, -118.5265, 3000},
			{"2025-01-12", 34.4905, -118.5270, 4500},
			{"2025-01-13", 34.4910, -118.5275, 5800},
			{"2025-01-14", 34.4915, -118.5280, 6500},
			{"2025-01-15", 34.4920, -118.5285, 7500},
		},
	},
}

// Fires returns the fire tracks flattened in track order.
func Fires() []model.FireRecord {
	var out []model.FireRecord
	for _, t := range tracks {
		for _, s := range t.snapshots {
			out = append(out, model.FireRecord{
				Name:      t.name,
				Date:      s.date,
				Latitude:  s.lat,
				Longitude: s.lon,
				Size:      s.acres,
			})
		}
	}
	return out
}

// AQI returns one reading per day for 24 days from 2025-01-07. The base value
// cycles through 50..150, every fire snapshot of the day adds 75, and several
// active fires compound by 50% each beyond the first. Values cap at 500.
func AQI() []model.AQIRecord {
	fires := Fires()
	out := make([]model.AQIRecord, 0, aqiDays)
	for i := 0; i < aqiDays; i++ {
		day := model.FormatDay(start.AddDate(0, 0, i))

		base := float64(aqiBase + (i%aqiCycle)*aqiCycleStep)
		active := 0
		for _, f := range fires {
			if f.Date == day {
				base += aqiPerFire
				active++
			}
		}
		if active > 1 {
			base *= 1 + float64(active-1)*aqiMultiFireMul
		}

		value := int(base)
		if value > aqiCap {
			value = aqiCap
		}
		lat, lon := laLatitude, laLongitude
		out = append(out, model.AQIRecord{Date: day, Value: value, Latitude: &lat, Longitude: &lon})
	}
	return out
}

// Payload returns the successful payload of the mock endpoint.
func Payload() model.Payload {
	return model.Payload{
		Status:   model.StatusSuccess,
		FireData: Fires(),
		AQIData:  AQI(),
	}
}

// Handler serves Payload as JSON on GET.
func Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(Payload())
	}
}

// Register mounts Handler at Path on mux.
func Register(mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc(Path, Handler())
}
