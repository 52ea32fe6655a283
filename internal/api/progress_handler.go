package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/scry-progress/internal/api/shared"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/service"
)

// ProgressHandler serves learner analytics.
type ProgressHandler struct {
	progress service.ProgressService
	streaks  service.StreakService
	logger   *slog.Logger
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(
	progress service.ProgressService,
	streaks service.StreakService,
	logger *slog.Logger,
) *ProgressHandler {
	if progress == nil {
		panic("progress service cannot be nil")
	}
	if streaks == nil {
		panic("streaks service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{
		progress: progress,
		streaks:  streaks,
		logger:   logger.With(slog.String("component", "progress_handler")),
	}
}

// Stats handles GET /api/progress/stats.
func (h *ProgressHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	stats, err := h.progress.Stats(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, stats)
}

// Trend handles GET /api/progress/trend?window=&horizon=.
func (h *ProgressHandler) Trend(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	window, ok := queryInt(r, "window")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid window")
		return
	}
	horizon, ok := queryInt(r, "horizon")
	if !ok {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid horizon")
		return
	}

	trend, err := h.progress.Trend(r.Context(), userID, service.TrendQuery{
		WindowDays:  window,
		HorizonDays: horizon,
	})
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, trend)
}

// Streaks handles GET /api/progress/streaks?kind=review|wellness. The kind
// defaults to review.
func (h *ProgressHandler) Streaks(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	kind := service.StreakKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = service.StreakKindReview
	}

	streaks, err := h.streaks.Streak(r.Context(), userID, kind)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, streaks)
}

// Overview handles GET /api/progress/overview.
func (h *ProgressHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	overview, err := h.progress.Overview(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("overview computed",
		slog.Int("attempted", overview.Stats.TotalAttempted),
		slog.Int("due", overview.DueCount))
	shared.RespondWithJSON(w, r, http.StatusOK, overview)
}
