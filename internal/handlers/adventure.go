package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/sunless-engine/internal/logger"
	"github.com/jwebster45206/sunless-engine/internal/middleware"
	"github.com/jwebster45206/sunless-engine/internal/session"
	"github.com/jwebster45206/sunless-engine/pkg/adventure"
	"github.com/jwebster45206/sunless-engine/pkg/textfilter"
)

// Error kinds reported in ErrorResponse.Kind.
const (
	KindInvalidState = "invalid_state"
	KindNotFound     = "not_found"
	KindBadRequest   = "bad_request"
	KindInternal     = "internal"
)

type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// CreateAdventureRequest is the optional body of POST /v1/adventures.
type CreateAdventureRequest struct {
	Start string `json:"start,omitempty"`
}

// CreateAdventureResponse is returned when an adventure is created.
type CreateAdventureResponse struct {
	ID       uuid.UUID `json:"id"`
	Location string    `json:"location"`
}

// PerformActionRequest selects an action by its position in the location view.
type PerformActionRequest struct {
	Index *int `json:"index"`
}

type AdventureHandler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

func NewAdventureHandler(sessions *session.Manager, logger *slog.Logger) *AdventureHandler {
	return &AdventureHandler{
		sessions: sessions,
		logger:   logger,
	}
}

// ServeHTTP handles adventure requests
// Routes:
// POST   /v1/adventures                   - Create adventure
// DELETE /v1/adventures/{id}              - Delete adventure
// GET    /v1/adventures/{id}/location     - Describe current location
// GET    /v1/adventures/{id}/consequence  - Describe pending consequence
// GET    /v1/adventures/{id}/progress     - Tracker report
// POST   /v1/adventures/{id}/actions      - Perform action {"index": n}
// POST   /v1/adventures/{id}/resolve      - Resolve consequence
// POST   /v1/adventures/{id}/leave        - Take the exit
func (h *AdventureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/adventures"), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			h.writeError(w, http.StatusMethodNotAllowed, KindBadRequest, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")
	if len(parts) > 2 {
		h.writeError(w, http.StatusNotFound, KindNotFound, "Unknown adventure route")
		return
	}

	id, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid adventure ID", "id", parts[0], "error", err)
		h.writeError(w, http.StatusBadRequest, KindBadRequest, "Invalid adventure ID format")
		return
	}

	var sub string
	if len(parts) == 2 {
		sub = parts[1]
	}

	switch {
	case sub == "" && r.Method == http.MethodDelete:
		h.handleDelete(w, r, id)
	case sub == "location" && r.Method == http.MethodGet:
		h.handleLocation(w, r, id)
	case sub == "consequence" && r.Method == http.MethodGet:
		h.handleConsequence(w, r, id)
	case sub == "progress" && r.Method == http.MethodGet:
		h.handleProgress(w, r, id)
	case sub == "actions" && r.Method == http.MethodPost:
		h.handlePerform(w, r, id)
	case sub == "resolve" && r.Method == http.MethodPost:
		h.handleResolve(w, r, id)
	case sub == "leave" && r.Method == http.MethodPost:
		h.handleLeave(w, r, id)
	case sub == "" || sub == "location" || sub == "consequence" || sub == "progress" ||
		sub == "actions" || sub == "resolve" || sub == "leave":
		h.logger.Warn("Method not allowed for adventure endpoint", "method", r.Method, "path", r.URL.Path)
		h.writeError(w, http.StatusMethodNotAllowed, KindBadRequest, "Method not allowed")
	default:
		h.writeError(w, http.StatusNotFound, KindNotFound, "Unknown adventure route")
	}
}

func (h *AdventureHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateAdventureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, http.StatusBadRequest, KindBadRequest, "Invalid JSON body")
		return
	}

	start := ""
	if req.Start != "" {
		start = textfilter.NormalizeID(req.Start)
		if !textfilter.IsValidID(start) {
			h.writeError(w, http.StatusBadRequest, KindBadRequest, "Invalid start location")
			return
		}
	}

	id, location, err := h.sessions.Create(r.Context(), start)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, CreateAdventureResponse{ID: id, Location: location})
}

func (h *AdventureHandler) handleLocation(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	view, err := h.sessions.Location(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *AdventureHandler) handleConsequence(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	view, err := h.sessions.Consequence(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, view)
}

func (h *AdventureHandler) handleProgress(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	report, err := h.sessions.Progress(r.Context(), id)
	if err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, report)
}

func (h *AdventureHandler) handlePerform(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req PerformActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Index == nil {
		h.writeError(w, http.StatusBadRequest, KindBadRequest, `Request body must be {"index": n}`)
		return
	}

	if err := h.sessions.Perform(r.Context(), id, *req.Index); err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdventureHandler) handleResolve(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.sessions.Resolve(r.Context(), id); err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdventureHandler) handleLeave(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.sessions.Leave(r.Context(), id); err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdventureHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.sessions.Delete(r.Context(), id); err != nil {
		h.writeSessionError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeSessionError maps session and adventure errors to HTTP responses.
func (h *AdventureHandler) writeSessionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, adventure.ErrInvalidState):
		h.writeError(w, http.StatusConflict, KindInvalidState, err.Error())
	case errors.Is(err, session.ErrNotFound):
		h.writeError(w, http.StatusNotFound, KindNotFound, "Adventure not found")
	default:
		log := logger.WithRequestID(h.logger, middleware.RequestID(r.Context()))
		logger.WithError(log, err).Error("Adventure request failed", "path", r.URL.Path)
		h.writeError(w, http.StatusInternalServerError, KindInternal, "Internal server error")
	}
}

func (h *AdventureHandler) writeError(w http.ResponseWriter, status int, kind, msg string) {
	h.writeJSON(w, status, ErrorResponse{Error: msg, Kind: kind})
}

func (h *AdventureHandler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
