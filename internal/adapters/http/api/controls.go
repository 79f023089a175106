package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"

	"github.com/okian/firewatch/internal/viz"
)

// Playback actions accepted by POST /api/playback.
const (
	actionPlay   = "play"
	actionPause  = "pause"
	actionToggle = "toggle"
)

const maxFormBytes = 1 << 16

// ControlHandler handles the dashboard inputs.
type ControlHandler struct {
	deps Dependencies
}

// NewControlHandler creates a new control handler.
func NewControlHandler(deps Dependencies) *ControlHandler {
	return &ControlHandler{deps: deps}
}

type dateRequest struct {
	Date string `json:"date"`
}

type playbackRequest struct {
	Action string `json:"action"`
}

// HandleDate handles POST /api/date requests.
func (h *ControlHandler) HandleDate(w http.ResponseWriter, r *http.Request) {
	const op = "api.select_date"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req dateRequest
	if err := decode(r, &req, "date", func(v string) { req.Date = v }); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if strings.TrimSpace(req.Date) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing date")))
		return
	}
	if err := h.deps.SelectDate(strings.TrimSpace(req.Date)); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	h.respond(w, r)
}

// HandlePlayback handles POST /api/playback requests.
func (h *ControlHandler) HandlePlayback(w http.ResponseWriter, r *http.Request) {
	const op = "api.playback"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req playbackRequest
	if err := decode(r, &req, "action", func(v string) { req.Action = v }); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	var err error
	switch strings.ToLower(strings.TrimSpace(req.Action)) {
	case actionPlay:
		err = h.deps.Play()
	case actionPause:
		h.deps.Pause()
	case actionToggle, "":
		_, err = h.deps.Toggle()
	default:
		writeError(w, http.StatusBadRequest, "bad_request",
			WrapKind(op, ErrBadRequest, fmt.Errorf("unknown action %q", req.Action)))
		return
	}
	if err != nil {
		if errors.Is(err, viz.ErrClosed) {
			writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal", Wrap(op, err))
		return
	}
	h.respond(w, r)
}

// HandleReload handles POST /api/reload requests. A failed fetch keeps the
// previous data and answers 502.
func (h *ControlHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	const op = "api.reload"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := h.deps.Reload(r.Context()); err != nil {
		writeError(w, http.StatusBadGateway, "fetch_failed", WrapKind(op, ErrUpstream, err))
		return
	}
	h.respond(w, r)
}

// respond answers with the updated view, or redirects form posts back to the
// dashboard page.
func (h *ControlHandler) respond(w http.ResponseWriter, r *http.Request) {
	if isForm(r) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	writeJSON(w, http.StatusOK, newViewResponse(h.deps))
}

func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// decode reads a JSON body into v, or the named form field for HTML forms.
func decode(r *http.Request, v any, field string, set func(string)) error {
	if isForm(r) {
		r.Body = http.MaxBytesReader(nil, r.Body, maxFormBytes)
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("parse form: %w", err)
		}
		set(r.PostForm.Get(field))
		return nil
	}
	if r.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxFormBytes)).Decode(v); err != nil {
		return fmt.Errorf("decode body: %w", err)
	}
	return nil
}
