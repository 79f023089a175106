// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/firewatch/internal/domain/geo"
	"github.com/okian/firewatch/internal/viz"
	"github.com/paulmach/orb/geojson"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Snapshot returns the current session state.
	Snapshot() viz.Snapshot

	// SelectDate, Play, Pause and Toggle are the dashboard inputs.
	SelectDate(day string) error
	Play() error
	Pause()
	Toggle() (viz.State, error)

	// Reload fetches the dataset again.
	Reload(ctx context.Context) error

	// Map layer reads.
	Overlays() *geojson.FeatureCollection
	Viewport() geo.Viewport
}

// Server wires HTTP routes for the dashboard API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	viewHandler      *ViewHandler
	controlHandler   *ControlHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider, deps),
		viewHandler:      NewViewHandler(deps),
		controlHandler:   NewControlHandler(deps),
		dashboardHandler: newDashboardHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/dashboard", MetricsMiddleware(s.dashboardHandler.HandleDashboard, "dashboard"))
	mux.HandleFunc("/api/view", MetricsMiddleware(s.viewHandler.HandleView, "view"))
	mux.HandleFunc("/api/overlays", MetricsMiddleware(s.viewHandler.HandleOverlays, "overlays"))
	mux.HandleFunc("/api/date", MetricsMiddleware(s.controlHandler.HandleDate, "date"))
	mux.HandleFunc("/api/playback", MetricsMiddleware(s.controlHandler.HandlePlayback, "playback"))
	mux.HandleFunc("/api/reload", MetricsMiddleware(s.controlHandler.HandleReload, "reload"))
}

// viewResponse is the JSON shape of the dashboard state.
type viewResponse struct {
	viz.Snapshot
	FireLines []string     `json:"fire_lines"`
	AQILines  []string     `json:"aqi_lines"`
	Viewport  geo.Viewport `json:"viewport"`
}

func newViewResponse(deps Dependencies) viewResponse {
	snap := deps.Snapshot()
	return viewResponse{
		Snapshot:  snap,
		FireLines: snap.Fires.Lines(),
		AQILines:  snap.AQI.Lines(),
		Viewport:  deps.Viewport(),
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// methodNotAllowed answers 405 with the Allow header set to allowed.
func methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
