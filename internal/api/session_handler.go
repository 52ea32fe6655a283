package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/api/shared"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/service"
	"github.com/phrazzld/scry-progress/internal/store"
)

// SessionHandler handles practice session requests.
type SessionHandler struct {
	sessions service.SessionService
	logger   *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(sessions service.SessionService, logger *slog.Logger) *SessionHandler {
	if sessions == nil {
		panic("sessions service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SessionHandler{
		sessions: sessions,
		logger:   logger.With(slog.String("component", "session_handler")),
	}
}

// Create handles POST /api/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.sessions.Create(r.Context(), userID, domain.SessionMode(req.Mode), req.QuestionIDs)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("session created",
		slog.String("session_id", session.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(session))
}

// List handles GET /api/sessions?status=&mode=&limit=.
func (h *SessionHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	limit, ok := queryInt(r, "limit")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid limit")
		return
	}
	q := r.URL.Query()
	filter := store.SessionFilter{
		Status: domain.SessionStatus(q.Get("status")),
		Mode:   domain.SessionMode(q.Get("mode")),
		Limit:  limit,
	}

	sessions, err := h.sessions.List(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	out := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, sessionToResponse(s))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// Get handles GET /api/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	session, err := h.sessions.Get(r.Context(), sessionID, userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// Advance handles POST /api/sessions/{id}/advance.
func (h *SessionHandler) Advance(w http.ResponseWriter, r *http.Request) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	var req AdvanceSessionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.sessions.Advance(r.Context(), sessionID, userID, *req.Index)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// Complete handles POST /api/sessions/{id}/complete.
func (h *SessionHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.finish(w, r, h.sessions.Complete)
}

// Abandon handles POST /api/sessions/{id}/abandon.
func (h *SessionHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	h.finish(w, r, h.sessions.Abandon)
}

// finish runs a terminal transition and returns the final session.
func (h *SessionHandler) finish(
	w http.ResponseWriter,
	r *http.Request,
	transition func(ctx context.Context, sessionID, userID uuid.UUID) (*domain.PracticeSession, error),
) {
	userID, sessionID, ok := handleUserIDAndPathUUID(w, r, "id")
	if !ok {
		return
	}

	session, err := transition(r.Context(), sessionID, userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("session finished",
		slog.String("session_id", sessionID.String()),
		slog.String("status", string(session.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}
