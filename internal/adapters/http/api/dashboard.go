package api

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/okian/firewatch/pkg/metrics"
)

//go:embed templates/dashboard.html
var templateFS embed.FS

var dashboardTmpl = template.Must(template.ParseFS(templateFS, "templates/dashboard.html"))

// dashboardHandler renders the HTML dashboard.
type dashboardHandler struct {
	deps Dependencies
}

func newDashboardHandler(deps Dependencies) *dashboardHandler {
	return &dashboardHandler{deps: deps}
}

// HandleDashboard handles GET /dashboard requests. The page is rendered with
// the current state so it is usable without scripts; the embedded script
// then keeps it in sync.
func (h *dashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.dashboard"
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	var buf bytes.Buffer
	if err := dashboardTmpl.Execute(&buf, newViewResponse(h.deps)); err != nil {
		metrics.RecordErrorByComponent("api", "template")
		writeError(w, http.StatusInternalServerError, "internal", WrapKind(op, ErrTemplateWrite, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
