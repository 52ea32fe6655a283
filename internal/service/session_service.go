package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/domain/progress"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/store"
)

// SessionService drives practice sessions from creation to completion or
// abandonment.
type SessionService interface {
	// Create starts an in-progress session over questionIDs.
	Create(ctx context.Context, userID uuid.UUID, mode domain.SessionMode, questionIDs []uuid.UUID) (*domain.PracticeSession, error)

	// Get returns the user's session.
	// Returns store.ErrSessionNotFound if it does not exist or belongs to someone else.
	Get(ctx context.Context, sessionID, userID uuid.UUID) (*domain.PracticeSession, error)

	// Progress returns the learner's position within the session.
	Progress(ctx context.Context, sessionID, userID uuid.UUID) (domain.SessionProgress, error)

	// Advance moves the current question index forward to index.
	Advance(ctx context.Context, sessionID, userID uuid.UUID, index int) (*domain.PracticeSession, error)

	// Complete computes results from the attempts made during the session and
	// finishes it. Only an in-progress session can be completed; a second
	// completion fails with domain.ErrSessionNotInProgress.
	Complete(ctx context.Context, sessionID, userID uuid.UUID) (*domain.PracticeSession, error)

	// Abandon ends an in-progress session without results.
	Abandon(ctx context.Context, sessionID, userID uuid.UUID) (*domain.PracticeSession, error)

	// List returns the user's sessions, newest first.
	List(ctx context.Context, userID uuid.UUID, filter store.SessionFilter) ([]*domain.PracticeSession, error)
}

var _ SessionService = (*sessionServiceImpl)(nil)

type sessionServiceImpl struct {
	sessions store.SessionStore
	attempts store.AttemptStore
	catalog  store.QuestionCatalog
	logger   *slog.Logger
	settings settings
}

// NewSessionService creates a SessionService.
func NewSessionService(
	sessions store.SessionStore,
	attempts store.AttemptStore,
	catalog store.QuestionCatalog,
	logger *slog.Logger,
	opts ...Option,
) SessionService {
	if sessions == nil {
		panic("sessions store cannot be nil")
	}
	if attempts == nil {
		panic("attempts store cannot be nil")
	}
	if catalog == nil {
		panic("catalog cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &sessionServiceImpl{
		sessions: sessions,
		attempts: attempts,
		catalog:  catalog,
		logger:   logger.With(slog.String("component", "session_service")),
		settings: newSettings(opts),
	}
}

// Create implements SessionService.Create.
func (s *sessionServiceImpl) Create(
	ctx context.Context,
	userID uuid.UUID,
	mode domain.SessionMode,
	questionIDs []uuid.UUID,
) (*domain.PracticeSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := domain.NewPracticeSession(userID, mode, questionIDs, s.settings.now())
	if err != nil {
		log.Debug("rejecting session", slog.String("error", err.Error()))
		return nil, err
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		log.Error("failed to create session",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, wrapError("create session", "failed to store session", err)
	}

	log.Info("session started",
		slog.String("session_id", session.ID.String()),
		slog.String("mode", string(mode)),
		slog.Int("questions", len(session.QuestionIDs)))
	return session, nil
}

// Get implements SessionService.Get.
func (s *sessionServiceImpl) Get(ctx context.Context, sessionID, userID uuid.UUID) (*domain.PracticeSession, error) {
	session, err := s.sessions.Get(ctx, sessionID, userID)
	if err != nil {
		if !errors.Is(err, store.ErrSessionNotFound) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to load session",
				slog.String("session_id", sessionID.String()),
				slog.String("error", err.Error()))
		}
		return nil, wrapError("get session", "failed to load session", err)
	}
	return session, nil
}

// Progress implements SessionService.Progress.
func (s *sessionServiceImpl) Progress(
	ctx context.Context,
	sessionID, userID uuid.UUID,
) (domain.SessionProgress, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return domain.SessionProgress{}, err
	}
	return session.Progress(), nil
}

// Advance implements SessionService.Advance.
func (s *sessionServiceImpl) Advance(
	ctx context.Context,
	sessionID, userID uuid.UUID,
	index int,
) (*domain.PracticeSession, error) {
	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if err := session.CheckAdvance(index); err != nil {
		return nil, err
	}

	inProgress := domain.SessionStatusInProgress
	return s.update(ctx, "advance session", sessionID, userID, store.SessionUpdate{
		ExpectStatus:         &inProgress,
		CurrentQuestionIndex: &index,
	})
}

// Complete implements SessionService.Complete.
func (s *sessionServiceImpl) Complete(
	ctx context.Context,
	sessionID, userID uuid.UUID,
) (*domain.PracticeSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("session_id", sessionID.String()))

	session, err := s.Get(ctx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Status != domain.SessionStatusInProgress {
		log.Debug("session already finished", slog.String("status", string(session.Status)))
		return nil, domain.ErrSessionNotInProgress
	}

	attempts, err := s.attempts.Query(ctx, userID, session.QuestionIDs...)
	if err != nil {
		log.Error("failed to load session attempts", slog.String("error", err.Error()))
		return nil, wrapError("complete session", "failed to load attempts", err)
	}
	attempts = progress.FilterQuestions(progress.FilterSince(attempts, session.StartedAt), session.QuestionIDs)

	categories, err := s.catalog.Categories(ctx, session.QuestionIDs)
	if err != nil {
		log.Warn("categories unavailable, results will be uncategorized", slog.String("error", err.Error()))
		categories = nil
	}

	stats := progress.Stats(attempts, progress.CategoryMap(categories))
	results := domain.SessionResults{
		Stats:              stats,
		CompletedQuestions: stats.TotalAttempted,
		TotalQuestions:     len(session.QuestionIDs),
	}

	inProgress := domain.SessionStatusInProgress
	completed := domain.SessionStatusCompleted
	completedAt := s.settings.now().UTC()
	done, err := s.update(ctx, "complete session", sessionID, userID, store.SessionUpdate{
		ExpectStatus: &inProgress,
		Status:       &completed,
		CompletedAt:  &completedAt,
		Results:      &results,
	})
	if err != nil {
		return nil, err
	}

	log.Info("session completed",
		slog.Int("completed_questions", results.CompletedQuestions),
		slog.Int("total_questions", results.TotalQuestions),
		slog.Float64("accuracy", results.Accuracy))
	return done, nil
}

// Abandon implements SessionService.Abandon.
func (s *sessionServiceImpl) Abandon(
	ctx context.Context,
	sessionID, userID uuid.UUID,
) (*domain.PracticeSession, error) {
	inProgress := domain.SessionStatusInProgress
	abandoned := domain.SessionStatusAbandoned
	return s.update(ctx, "abandon session", sessionID, userID, store.SessionUpdate{
		ExpectStatus: &inProgress,
		Status:       &abandoned,
	})
}

// List implements SessionService.List.
func (s *sessionServiceImpl) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.SessionFilter,
) ([]*domain.PracticeSession, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrEmptyUserID
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.ErrInvalidSessionStatus
	}
	if filter.Mode != "" && !filter.Mode.Valid() {
		return nil, domain.ErrInvalidSessionMode
	}
	if filter.Limit < 0 {
		return nil, domain.ErrInvalidInput
	}

	sessions, err := s.sessions.List(ctx, userID, filter)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list sessions",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, wrapError("list sessions", "failed to query sessions", err)
	}
	return sessions, nil
}

// update applies a conditional change. A failed status precondition means
// the session is no longer in progress.
func (s *sessionServiceImpl) update(
	ctx context.Context,
	operation string,
	sessionID, userID uuid.UUID,
	update store.SessionUpdate,
) (*domain.PracticeSession, error) {
	session, err := s.sessions.Update(ctx, sessionID, userID, update)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil, domain.ErrSessionNotInProgress
		}
		if !errors.Is(err, store.ErrSessionNotFound) && !errors.Is(err, domain.ErrInvalidInput) {
			logger.FromContextOrDefault(ctx, s.logger).Error("failed to update session",
				slog.String("operation", operation),
				slog.String("session_id", sessionID.String()),
				slog.String("error", err.Error()))
		}
		return nil, wrapError(operation, "failed to update session", err)
	}
	return session, nil
}
