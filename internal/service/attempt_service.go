package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/store"
)

// AttemptService records learner answers.
type AttemptService interface {
	// Record validates the attempt and appends it to the log. The returned
	// record carries the assigned AttemptNumber.
	Record(ctx context.Context, attempt *domain.AttemptRecord) (*domain.AttemptRecord, error)
}

var _ AttemptService = (*attemptServiceImpl)(nil)

type attemptServiceImpl struct {
	attempts store.AttemptStore
	locker   PairLocker
	logger   *slog.Logger
}

// NewAttemptService creates an AttemptService.
func NewAttemptService(attempts store.AttemptStore, locker PairLocker, logger *slog.Logger) AttemptService {
	if attempts == nil {
		panic("attempts store cannot be nil")
	}
	if locker == nil {
		panic("locker cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &attemptServiceImpl{
		attempts: attempts,
		locker:   locker,
		logger:   logger.With(slog.String("component", "attempt_service")),
	}
}

// Record implements AttemptService.Record.
func (s *attemptServiceImpl) Record(
	ctx context.Context,
	attempt *domain.AttemptRecord,
) (*domain.AttemptRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if attempt == nil {
		return nil, domain.ErrInvalidInput
	}
	if err := attempt.Validate(); err != nil {
		log.Debug("rejecting invalid attempt", slog.String("error", err.Error()))
		return nil, err
	}

	unlock, err := lockPair(ctx, s.locker, "record attempt", attempt.UserID, attempt.QuestionID)
	if err != nil {
		log.Warn("failed to lock question for attempt",
			slog.String("user_id", attempt.UserID.String()),
			slog.String("question_id", attempt.QuestionID.String()),
			slog.String("error", err.Error()))
		return nil, err
	}
	defer unlock()

	stored, err := s.attempts.Append(ctx, attempt)
	if err != nil {
		log.Error("failed to append attempt",
			slog.String("user_id", attempt.UserID.String()),
			slog.String("question_id", attempt.QuestionID.String()),
			slog.String("error", err.Error()))
		return nil, wrapError("record attempt", "failed to append attempt", err)
	}

	log.Debug("attempt recorded",
		slog.String("attempt_id", stored.ID.String()),
		slog.Int("attempt_number", stored.AttemptNumber))
	return stored, nil
}
