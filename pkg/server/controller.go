package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mholzen/treegrid/pkg/grid"
	"github.com/mholzen/treegrid/pkg/rowmodel"
)

var (
	errSessionNotFound = errors.New("session not found")
	errInvalidPayload  = errors.New("invalid request payload")
)

// Controller handles the grid API requests.
type Controller struct {
	sessions *Sessions
	options  *grid.Options
}

type createSessionResponse struct {
	ID string `json:"id"`
}

// GetOptions handles GET /api/options.
func (c *Controller) GetOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, c.options)
}

// CreateSession handles POST /api/sessions.
func (c *Controller) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := c.sessions.Create()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{ID: id})
}

// DeleteSession handles DELETE /api/sessions/{sessionID}.
func (c *Controller) DeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionID"]
	if !c.sessions.Delete(r.Context(), sessionID) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetRows handles POST /api/sessions/{sessionID}/rows.
func (c *Controller) GetRows(w http.ResponseWriter, r *http.Request) {
	sink := newStreamSink(w)
	sessionID := mux.Vars(r)["sessionID"]
	provider, ok := c.sessions.Provider(sessionID)
	if !ok {
		sink.failWithStatus(http.StatusNotFound, errSessionNotFound)
		return
	}

	var req rowmodel.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Debug("cannot decode rows request", "session_id", sessionID, "error", err)
		sink.failWithStatus(http.StatusBadRequest, errInvalidPayload)
		return
	}

	slog.Debug("rows request", "session_id", sessionID, "group_path", req.GroupPath, "start", req.StartIndex, "end", req.EndIndex)
	provider.GetRows(r.Context(), req, sink)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("cannot encode response", "error", err)
	}
}
