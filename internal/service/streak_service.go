package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/domain/streak"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/store"
)

// StreakKind selects which activity a streak counts.
type StreakKind string

// Supported streak kinds.
const (
	StreakKindReview   StreakKind = "review"
	StreakKindWellness StreakKind = "wellness"
)

// ErrUnknownStreakKind is returned for a StreakKind other than review or wellness.
var ErrUnknownStreakKind = fmt.Errorf("%w: unknown streak kind", domain.ErrInvalidInput)

// StreakService computes consecutive-day activity streaks. Lookups that fail
// are logged and reported as a zero streak.
type StreakService interface {
	// Streak returns the streak of the given kind.
	Streak(ctx context.Context, userID uuid.UUID, kind StreakKind) (domain.Streaks, error)
}

var _ StreakService = (*streakServiceImpl)(nil)

type streakServiceImpl struct {
	schedules store.ScheduleStore
	sessions  store.SessionStore
	logger    *slog.Logger
	settings  settings
}

// NewStreakService creates a StreakService.
func NewStreakService(
	schedules store.ScheduleStore,
	sessions store.SessionStore,
	logger *slog.Logger,
	opts ...Option,
) StreakService {
	if schedules == nil {
		panic("schedules store cannot be nil")
	}
	if sessions == nil {
		panic("sessions store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &streakServiceImpl{
		schedules: schedules,
		sessions:  sessions,
		logger:    logger.With(slog.String("component", "streak_service")),
		settings:  newSettings(opts),
	}
}

// Streak implements StreakService.Streak.
func (s *streakServiceImpl) Streak(
	ctx context.Context,
	userID uuid.UUID,
	kind StreakKind,
) (domain.Streaks, error) {
	if userID == uuid.Nil {
		return domain.Streaks{}, domain.ErrEmptyUserID
	}

	var (
		dates []time.Time
		err   error
	)
	switch kind {
	case StreakKindReview:
		dates, err = s.schedules.ReviewDates(ctx, userID)
	case StreakKindWellness:
		dates, err = s.wellnessDates(ctx, userID)
	default:
		return domain.Streaks{}, ErrUnknownStreakKind
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Warn("streak data unavailable, reporting zero streak",
			slog.String("user_id", userID.String()),
			slog.String("kind", string(kind)),
			slog.String("error", err.Error()))
		return domain.Streaks{}, nil
	}

	return streak.Calculate(dates, s.settings.now(), s.settings.location), nil
}

// wellnessDates returns the completion times of the user's finished
// wellness sessions.
func (s *streakServiceImpl) wellnessDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	sessions, err := s.sessions.List(ctx, userID, store.SessionFilter{
		Status: domain.SessionStatusCompleted,
		Mode:   domain.SessionModeWellness,
	})
	if err != nil {
		return nil, err
	}

	dates := make([]time.Time, 0, len(sessions))
	for _, sess := range sessions {
		if sess.CompletedAt != nil {
			dates = append(dates, *sess.CompletedAt)
		}
	}
	return dates, nil
}
