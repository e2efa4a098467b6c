package organize

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/clearcase/internal/incidents"
	"github.com/JaimeStill/clearcase/internal/remote"
	"github.com/JaimeStill/clearcase/internal/structure"
	"github.com/JaimeStill/clearcase/pkg/handlers"
	"github.com/JaimeStill/clearcase/pkg/routes"
)

var ErrInvalidBody = errors.New("invalid request body")

// NotesRequest carries raw notes to scan or organize.
type NotesRequest struct {
	Text string `json:"text"`
}

// OrganizeResponse lists the incidents found in one set of notes. Fallback is
// set when the remote organizer failed and the notes were parsed locally.
type OrganizeResponse struct {
	Incidents []structure.Incident `json:"incidents"`
	Fallback  bool                 `json:"fallback"`
	Error     string               `json:"error,omitempty"`
}

// Handler provides HTTP endpoints over the organize pipeline.
type Handler struct {
	pipeline  *Pipeline
	organizer structure.Organizer
	logger    *slog.Logger
}

// NewHandler creates a Handler. A nil organizer makes /organize parse locally.
func NewHandler(pipeline *Pipeline, organizer structure.Organizer, logger *slog.Logger) *Handler {
	return &Handler{
		pipeline:  pipeline,
		organizer: organizer,
		logger:    logger.With("handler", "notes"),
	}
}

// Routes returns the route group definition for note endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/notes",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/scan", Handler: h.Scan, OpenAPI: scanOp},
			{Method: "POST", Pattern: "/parse", Handler: h.Parse, OpenAPI: parseOp},
			{Method: "POST", Pattern: "/organize", Handler: h.Organize, OpenAPI: organizeOp},
		},
	}
}

// Scan returns the fast scan of the posted notes.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, h.pipeline.Scan(req.Text))
}

// Parse runs the full pipeline on the posted notes.
func (h *Handler) Parse(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	handlers.RespondJSON(w, http.StatusOK, h.pipeline.Run(r.Context(), req.Text))
}

// Organize asks the remote organizer for every incident in the notes and
// falls back to a local parse when it is unavailable.
func (h *Handler) Organize(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	var resp OrganizeResponse

	err := remote.ErrNotConfigured
	if h.organizer != nil {
		var found []remote.APIIncident
		found, err = h.organizer.Organize(r.Context(), req.Text)
		if err == nil && len(found) == 0 {
			err = structure.ErrNoIncidents
		}
		if err == nil {
			resp.Incidents = structure.AdaptAll(found)
		}
	}

	if err != nil {
		h.logger.Warn("remote organize unavailable, parsing locally", "error", err)
		local := structure.ParseNotes(req.Text)
		resp.Incidents = []structure.Incident{local}
		resp.Fallback = true
		resp.Error = err.Error()
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (NotesRequest, bool) {
	var req NotesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, handlers.DecodeStatus(err), ErrInvalidBody)
		return req, false
	}
	if len([]rune(req.Text)) > incidents.MaxNotesLength {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, incidents.ErrNotesTooLong)
		return req, false
	}
	return req, true
}
