package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/domain/srs"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/store"
)

// ReviewService schedules reviews with the SM-2 algorithm.
type ReviewService interface {
	// Submit grades a review of the question with quality 0-5 and stores the
	// resulting schedule. The first review of a pair creates its schedule.
	Submit(ctx context.Context, userID, questionID uuid.UUID, quality int) (*domain.ReviewSchedule, error)

	// Postpone pushes the pair's next review back by days.
	// Returns store.ErrScheduleNotFound if the question was never reviewed.
	Postpone(ctx context.Context, userID, questionID uuid.UUID, days int) (*domain.ReviewSchedule, error)

	// Due lists the user's schedules due at asOf, earliest first. A zero
	// asOf means now.
	Due(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.ReviewSchedule, error)
}

var _ ReviewService = (*reviewServiceImpl)(nil)

type reviewServiceImpl struct {
	schedules store.ScheduleStore
	srs       srs.Service
	locker    PairLocker
	logger    *slog.Logger
	settings  settings
}

// NewReviewService creates a ReviewService.
func NewReviewService(
	schedules store.ScheduleStore,
	srsService srs.Service,
	locker PairLocker,
	logger *slog.Logger,
	opts ...Option,
) ReviewService {
	if schedules == nil {
		panic("schedules store cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if locker == nil {
		panic("locker cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		schedules: schedules,
		srs:       srsService,
		locker:    locker,
		logger:    logger.With(slog.String("component", "review_service")),
		settings:  newSettings(opts),
	}
}

// Submit implements ReviewService.Submit.
func (s *reviewServiceImpl) Submit(
	ctx context.Context,
	userID, questionID uuid.UUID,
	quality int,
) (*domain.ReviewSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("question_id", questionID.String()))

	if err := checkPair(userID, questionID); err != nil {
		return nil, err
	}
	if !domain.ValidQuality(quality) {
		log.Debug("rejecting review quality", slog.Int("quality", quality))
		return nil, domain.ErrInvalidQuality
	}

	unlock, err := lockPair(ctx, s.locker, "submit review", userID, questionID)
	if err != nil {
		log.Warn("failed to lock question for review", slog.String("error", err.Error()))
		return nil, err
	}
	defer unlock()

	existing, err := s.schedules.Get(ctx, userID, questionID)
	if err != nil {
		if !errors.Is(err, store.ErrScheduleNotFound) {
			log.Error("failed to load review schedule", slog.String("error", err.Error()))
			return nil, wrapError("submit review", "failed to load schedule", err)
		}
		existing = nil
	}

	next, err := s.srs.Schedule(userID, questionID, existing, quality, s.settings.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.schedules.Upsert(ctx, next); err != nil {
		log.Error("failed to store review schedule", slog.String("error", err.Error()))
		return nil, wrapError("submit review", "failed to store schedule", err)
	}

	log.Debug("review scheduled",
		slog.Int("quality", quality),
		slog.Int("interval", next.Interval),
		slog.Time("next_review_date", next.NextReviewDate))
	return next, nil
}

// Postpone implements ReviewService.Postpone.
func (s *reviewServiceImpl) Postpone(
	ctx context.Context,
	userID, questionID uuid.UUID,
	days int,
) (*domain.ReviewSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(
		slog.String("user_id", userID.String()),
		slog.String("question_id", questionID.String()))

	if err := checkPair(userID, questionID); err != nil {
		return nil, err
	}
	if days < 1 {
		return nil, srs.ErrInvalidDays
	}

	unlock, err := lockPair(ctx, s.locker, "postpone review", userID, questionID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	existing, err := s.schedules.Get(ctx, userID, questionID)
	if err != nil {
		if errors.Is(err, store.ErrScheduleNotFound) {
			log.Debug("nothing to postpone")
		} else {
			log.Error("failed to load review schedule", slog.String("error", err.Error()))
		}
		return nil, wrapError("postpone review", "failed to load schedule", err)
	}

	next, err := s.srs.Postpone(existing, days, s.settings.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.schedules.Upsert(ctx, next); err != nil {
		log.Error("failed to store postponed schedule", slog.String("error", err.Error()))
		return nil, wrapError("postpone review", "failed to store schedule", err)
	}

	log.Debug("review postponed",
		slog.Int("days", days),
		slog.Time("next_review_date", next.NextReviewDate))
	return next, nil
}

// Due implements ReviewService.Due.
func (s *reviewServiceImpl) Due(
	ctx context.Context,
	userID uuid.UUID,
	asOf time.Time,
) ([]*domain.ReviewSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if userID == uuid.Nil {
		return nil, domain.ErrEmptyUserID
	}
	if asOf.IsZero() {
		asOf = s.settings.now()
	}

	due, err := s.schedules.ListDue(ctx, userID, asOf.UTC())
	if err != nil {
		log.Error("failed to list due reviews",
			slog.String("user_id", userID.String()),
			slog.String("error", err.Error()))
		return nil, wrapError("list due reviews", "failed to query schedules", err)
	}
	return due, nil
}

func checkPair(userID, questionID uuid.UUID) error {
	if userID == uuid.Nil {
		return domain.ErrEmptyUserID
	}
	if questionID == uuid.Nil {
		return domain.ErrEmptyQuestionID
	}
	return nil
}
