package api

import (
	"net/http"
)

// StatsProvider reports service-level counters for /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the service stats merged with a summary of the
// currently rendered day.
type StatsHandler struct {
	statsProvider StatsProvider
	deps          Dependencies
}

// NewStatsHandler creates a new stats handler. deps may be nil.
func NewStatsHandler(statsProvider StatsProvider, deps Dependencies) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider, deps: deps}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	out := map[string]interface{}{}
	if h.statsProvider != nil {
		for k, v := range h.statsProvider.GetStats() {
			out[k] = v
		}
	}
	if h.deps != nil {
		snap := h.deps.Snapshot()
		out["view"] = map[string]interface{}{
			"date":          snap.Date,
			"playing":       snap.Playing,
			"active_fires":  snap.Fires.Count,
			"total_acres":   snap.Fires.TotalAcres,
			"aqi_available": snap.AQI.Available,
			"aqi_value":     snap.AQI.Value,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
