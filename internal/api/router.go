package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/scry-progress/internal/api/middleware"
	"github.com/phrazzld/scry-progress/internal/service"
	"github.com/phrazzld/scry-progress/internal/service/auth"
)

// Services groups the use cases the HTTP adapter exposes.
type Services struct {
	Attempts service.AttemptService
	Reviews  service.ReviewService
	Progress service.ProgressService
	Streaks  service.StreakService
	Sessions service.SessionService
}

// NewRouter builds the HTTP handler with every route and middleware.
func NewRouter(svc Services, jwtService auth.JWTService, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}

	attempts := NewAttemptHandler(svc.Attempts, logger)
	reviews := NewReviewHandler(svc.Reviews, logger)
	progress := NewProgressHandler(svc.Progress, svc.Streaks, logger)
	sessions := NewSessionHandler(svc.Sessions, logger)
	authMiddleware := middleware.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewTraceMiddleware(logger))

	r.Route("/api", func(r chi.Router) {
		r.Use(authMiddleware.Authenticate)

		r.Post("/attempts", attempts.Record)

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/due", reviews.Due)
			r.Post("/{questionID}", reviews.Submit)
			r.Post("/{questionID}/postpone", reviews.Postpone)
		})

		r.Route("/progress", func(r chi.Router) {
			r.Get("/stats", progress.Stats)
			r.Get("/trend", progress.Trend)
			r.Get("/streaks", progress.Streaks)
			r.Get("/overview", progress.Overview)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", sessions.Create)
			r.Get("/", sessions.List)
			r.Get("/{id}", sessions.Get)
			r.Post("/{id}/advance", sessions.Advance)
			r.Post("/{id}/complete", sessions.Complete)
			r.Post("/{id}/abandon", sessions.Abandon)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health check response", slog.String("error", err.Error()))
		}
	})

	return r
}
