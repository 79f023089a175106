package api

import (
	"encoding/json"
	"net/http"
)

// ViewHandler serves read-only dashboard state.
type ViewHandler struct {
	deps Dependencies
}

// NewViewHandler creates a new view handler.
func NewViewHandler(deps Dependencies) *ViewHandler {
	return &ViewHandler{deps: deps}
}

// HandleView handles GET /api/view requests.
func (h *ViewHandler) HandleView(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, newViewResponse(h.deps))
}

// HandleOverlays handles GET /api/overlays requests with a GeoJSON
// FeatureCollection of the drawn circles.
func (h *ViewHandler) HandleOverlays(w http.ResponseWriter, r *http.Request) {
	const op = "api.overlays"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	raw, err := json.Marshal(h.deps.Overlays())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
