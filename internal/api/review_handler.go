package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-progress/internal/api/shared"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/service"
)

// ReviewHandler handles spaced repetition review requests.
type ReviewHandler struct {
	reviews service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(reviews service.ReviewService, logger *slog.Logger) *ReviewHandler {
	if reviews == nil {
		panic("reviews service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewHandler{
		reviews: reviews,
		logger:  logger.With(slog.String("component", "review_handler")),
	}
}

// Submit handles POST /api/reviews/{questionID}.
func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, questionID, ok := handleUserIDAndPathUUID(w, r, "questionID")
	if !ok {
		return
	}

	var req SubmitReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	schedule, err := h.reviews.Submit(r.Context(), userID, questionID, *req.Quality)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("review submitted",
		slog.String("question_id", questionID.String()),
		slog.Int("quality", *req.Quality))
	shared.RespondWithJSON(w, r, http.StatusOK, scheduleToResponse(schedule))
}

// Postpone handles POST /api/reviews/{questionID}/postpone.
func (h *ReviewHandler) Postpone(w http.ResponseWriter, r *http.Request) {
	userID, questionID, ok := handleUserIDAndPathUUID(w, r, "questionID")
	if !ok {
		return
	}

	var req PostponeReviewRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	schedule, err := h.reviews.Postpone(r.Context(), userID, questionID, req.Days)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, scheduleToResponse(schedule))
}

// Due handles GET /api/reviews/due?as_of=RFC3339.
func (h *ReviewHandler) Due(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	asOf, ok := queryTime(r, "as_of")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid as_of: must be RFC 3339")
		return
	}

	due, err := h.reviews.Due(r.Context(), userID, asOf)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	out := make([]ScheduleResponse, 0, len(due))
	for _, s := range due {
		out = append(out, scheduleToResponse(s))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}
