package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/domain/progress"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/store"
)

// TrendQuery overrides the configured trend window and horizon. Zero fields
// keep the defaults.
type TrendQuery struct {
	WindowDays  int
	HorizonDays int
}

// Overview bundles every progress figure shown on a learner's dashboard.
type Overview struct {
	Stats          domain.Stats        `json:"stats"`
	Trend          []domain.TrendPoint `json:"trend"`
	ReviewStreak   domain.Streaks      `json:"review_streak"`
	WellnessStreak domain.Streaks      `json:"wellness_streak"`
	DueCount       int                 `json:"due_count"`
}

// ProgressService reports accuracy statistics and trends. Unavailable data
// never fails a read: it is logged and reported as empty.
type ProgressService interface {
	// Stats summarizes every attempt the user made.
	Stats(ctx context.Context, userID uuid.UUID) (domain.Stats, error)

	// Trend returns the user's rolling accuracy, one point per active day.
	Trend(ctx context.Context, userID uuid.UUID, query TrendQuery) ([]domain.TrendPoint, error)

	// Overview gathers stats, trend, both streaks and the due review count
	// concurrently.
	Overview(ctx context.Context, userID uuid.UUID) (*Overview, error)
}

var _ ProgressService = (*progressServiceImpl)(nil)

type progressServiceImpl struct {
	attempts  store.AttemptStore
	catalog   store.QuestionCatalog
	schedules store.ScheduleStore
	streaks   StreakService
	logger    *slog.Logger
	settings  settings
}

// NewProgressService creates a ProgressService.
func NewProgressService(
	attempts store.AttemptStore,
	catalog store.QuestionCatalog,
	schedules store.ScheduleStore,
	streaks StreakService,
	logger *slog.Logger,
	opts ...Option,
) ProgressService {
	if attempts == nil {
		panic("attempts store cannot be nil")
	}
	if catalog == nil {
		panic("catalog cannot be nil")
	}
	if schedules == nil {
		panic("schedules store cannot be nil")
	}
	if streaks == nil {
		panic("streaks service cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &progressServiceImpl{
		attempts:  attempts,
		catalog:   catalog,
		schedules: schedules,
		streaks:   streaks,
		logger:    logger.With(slog.String("component", "progress_service")),
		settings:  newSettings(opts),
	}
}

// Stats implements ProgressService.Stats.
func (s *progressServiceImpl) Stats(ctx context.Context, userID uuid.UUID) (domain.Stats, error) {
	if userID == uuid.Nil {
		return domain.Stats{}, domain.ErrEmptyUserID
	}
	attempts := s.loadAttempts(ctx, userID)
	return progress.Stats(attempts, s.loadCategories(ctx, attempts)), nil
}

// Trend implements ProgressService.Trend.
func (s *progressServiceImpl) Trend(
	ctx context.Context,
	userID uuid.UUID,
	query TrendQuery,
) ([]domain.TrendPoint, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrEmptyUserID
	}
	if query.WindowDays < 0 || query.HorizonDays < 0 {
		return nil, domain.ErrInvalidInput
	}
	return progress.Trend(s.loadAttempts(ctx, userID), s.trendOptions(query)), nil
}

// Overview implements ProgressService.Overview.
func (s *progressServiceImpl) Overview(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrEmptyUserID
	}

	var out Overview
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		attempts := s.loadAttempts(gctx, userID)
		out.Stats = progress.Stats(attempts, s.loadCategories(gctx, attempts))
		out.Trend = progress.Trend(attempts, s.trendOptions(TrendQuery{}))
		return nil
	})
	g.Go(func() error {
		var err error
		out.ReviewStreak, err = s.streaks.Streak(gctx, userID, StreakKindReview)
		return err
	})
	g.Go(func() error {
		var err error
		out.WellnessStreak, err = s.streaks.Streak(gctx, userID, StreakKindWellness)
		return err
	})
	g.Go(func() error {
		due, err := s.schedules.ListDue(gctx, userID, s.settings.now().UTC())
		if err != nil {
			s.warnDegraded(gctx, "due reviews", userID, err)
			return nil
		}
		out.DueCount = len(due)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *progressServiceImpl) trendOptions(query TrendQuery) progress.TrendOptions {
	opts := s.settings.trend
	if query.WindowDays > 0 {
		opts.WindowDays = query.WindowDays
	}
	if query.HorizonDays > 0 {
		opts.HorizonDays = query.HorizonDays
	}
	return opts
}

// loadAttempts returns the user's attempts, or none if the log is unavailable.
func (s *progressServiceImpl) loadAttempts(ctx context.Context, userID uuid.UUID) []domain.AttemptRecord {
	attempts, err := s.attempts.Query(ctx, userID)
	if err != nil {
		s.warnDegraded(ctx, "attempts", userID, err)
		return nil
	}
	return attempts
}

// loadCategories resolves categories for the attempted questions. On failure
// every question falls into the uncategorized bucket.
func (s *progressServiceImpl) loadCategories(ctx context.Context, attempts []domain.AttemptRecord) progress.CategoryMap {
	if len(attempts) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(attempts))
	ids := make([]uuid.UUID, 0, len(attempts))
	for _, a := range attempts {
		if _, ok := seen[a.QuestionID]; ok {
			continue
		}
		seen[a.QuestionID] = struct{}{}
		ids = append(ids, a.QuestionID)
	}

	categories, err := s.catalog.Categories(ctx, ids)
	if err != nil {
		s.warnDegraded(ctx, "categories", attempts[0].UserID, err)
		return nil
	}
	return categories
}

func (s *progressServiceImpl) warnDegraded(ctx context.Context, what string, userID uuid.UUID, err error) {
	logger.FromContextOrDefault(ctx, s.logger).Warn("progress data unavailable, reporting empty result",
		slog.String("source", what),
		slog.String("user_id", userID.String()),
		slog.String("error", err.Error()))
}
