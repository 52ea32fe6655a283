package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-progress/internal/api/shared"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/service"
)

// AttemptHandler handles attempt logging requests.
type AttemptHandler struct {
	attempts service.AttemptService
	logger   *slog.Logger
	now      func() time.Time
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attempts service.AttemptService, logger *slog.Logger) *AttemptHandler {
	if attempts == nil {
		panic("attempts service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AttemptHandler{
		attempts: attempts,
		logger:   logger.With(slog.String("component", "attempt_handler")),
		now:      time.Now,
	}
}

// Record handles POST /api/attempts. The attempt is stamped with the server
// clock; clients cannot backdate it.
func (h *AttemptHandler) Record(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req RecordAttemptRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	attempt, err := domain.NewAttemptRecord(
		userID,
		req.QuestionID,
		req.SelectedAnswer,
		*req.IsCorrect,
		req.TimeSpentSeconds,
		h.now(),
	)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	stored, err := h.attempts.Record(r.Context(), attempt)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	log.Debug("attempt recorded",
		slog.String("question_id", stored.QuestionID.String()),
		slog.Int("attempt_number", stored.AttemptNumber))
	shared.RespondWithJSON(w, r, http.StatusCreated, stored)
}
