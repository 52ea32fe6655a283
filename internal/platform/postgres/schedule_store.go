package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/store"
)

// PostgresScheduleStore implements the store.ScheduleStore interface
// using a PostgreSQL database as the storage backend.
type PostgresScheduleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresScheduleStore creates a new PostgreSQL implementation of the ScheduleStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresScheduleStore(db store.DBTX, logger *slog.Logger) *PostgresScheduleStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresScheduleStore{
		db:     db,
		logger: logger.With(slog.String("component", "schedule_store")),
	}
}

// Ensure PostgresScheduleStore implements store.ScheduleStore interface
var _ store.ScheduleStore = (*PostgresScheduleStore)(nil)

const scheduleColumns = `
	user_id, question_id, easiness_factor, interval_days, repetitions,
	next_review_date, last_review_date, last_quality
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(row rowScanner) (*domain.ReviewSchedule, error) {
	var s domain.ReviewSchedule
	if err := row.Scan(
		&s.UserID,
		&s.QuestionID,
		&s.EasinessFactor,
		&s.Interval,
		&s.Repetitions,
		&s.NextReviewDate,
		&s.LastReviewDate,
		&s.LastQuality,
	); err != nil {
		return nil, err
	}
	s.NextReviewDate = s.NextReviewDate.UTC()
	s.LastReviewDate = s.LastReviewDate.UTC()
	return &s, nil
}

// Get implements store.ScheduleStore.Get
// Returns store.ErrScheduleNotFound if the pair has never been reviewed.
func (s *PostgresScheduleStore) Get(
	ctx context.Context,
	userID, questionID uuid.UUID,
) (*domain.ReviewSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + scheduleColumns + `
		FROM review_schedules
		WHERE user_id = $1 AND question_id = $2
	`
	schedule, err := scanSchedule(s.db.QueryRowContext(ctx, query, userID, questionID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("review schedule not found",
				slog.String("user_id", userID.String()),
				slog.String("question_id", questionID.String()))
			return nil, store.ErrScheduleNotFound
		}
		log.Error("failed to get review schedule",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()),
			slog.String("question_id", questionID.String()))
		return nil, store.NewStoreError("review_schedule", "get", "failed to get schedule", MapError(err))
	}
	return schedule, nil
}

// The schedule upsert and the review event insert run as one statement so a
// review is never logged without its schedule or vice versa.
const upsertScheduleQuery = `
	WITH upserted AS (
		INSERT INTO review_schedules (
			user_id, question_id, easiness_factor, interval_days, repetitions,
			next_review_date, last_review_date, last_quality, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id, question_id) DO UPDATE SET
			easiness_factor  = EXCLUDED.easiness_factor,
			interval_days    = EXCLUDED.interval_days,
			repetitions      = EXCLUDED.repetitions,
			next_review_date = EXCLUDED.next_review_date,
			last_review_date = EXCLUDED.last_review_date,
			last_quality     = EXCLUDED.last_quality,
			updated_at       = NOW()
		RETURNING user_id, question_id, last_review_date, last_quality
	)
	INSERT INTO review_events (user_id, question_id, reviewed_at, quality)
	SELECT user_id, question_id, last_review_date, last_quality FROM upserted
`

// Upsert implements store.ScheduleStore.Upsert
func (s *PostgresScheduleStore) Upsert(ctx context.Context, schedule *domain.ReviewSchedule) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := schedule.Validate(); err != nil {
		log.Warn("review schedule validation failed during upsert",
			slog.String("error", err.Error()),
			slog.String("user_id", schedule.UserID.String()),
			slog.String("question_id", schedule.QuestionID.String()))
		return err
	}

	_, err := s.db.ExecContext(
		ctx,
		upsertScheduleQuery,
		schedule.UserID,
		schedule.QuestionID,
		schedule.EasinessFactor,
		schedule.Interval,
		schedule.Repetitions,
		schedule.NextReviewDate.UTC(),
		schedule.LastReviewDate.UTC(),
		schedule.LastQuality,
	)
	if err != nil {
		log.Error("failed to upsert review schedule",
			slog.String("error", err.Error()),
			slog.String("user_id", schedule.UserID.String()),
			slog.String("question_id", schedule.QuestionID.String()))
		return store.NewStoreError("review_schedule", "upsert", "failed to upsert schedule", MapError(err))
	}

	log.Debug("review schedule upserted",
		slog.String("user_id", schedule.UserID.String()),
		slog.String("question_id", schedule.QuestionID.String()),
		slog.Int("interval", schedule.Interval),
		slog.Time("next_review_date", schedule.NextReviewDate))
	return nil
}

// ListDue implements store.ScheduleStore.ListDue
func (s *PostgresScheduleStore) ListDue(
	ctx context.Context,
	userID uuid.UUID,
	asOf time.Time,
) ([]*domain.ReviewSchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + scheduleColumns + `
		FROM review_schedules
		WHERE user_id = $1 AND next_review_date <= $2
		ORDER BY next_review_date, question_id
	`
	rows, err := s.db.QueryContext(ctx, query, userID, asOf.UTC())
	if err != nil {
		log.Error("failed to list due schedules",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("review_schedule", "list_due", "failed to query schedules", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var due []*domain.ReviewSchedule
	for rows.Next() {
		schedule, err := scanSchedule(rows)
		if err != nil {
			return nil, store.NewStoreError("review_schedule", "list_due", "failed to scan schedule", MapError(err))
		}
		due = append(due, schedule)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("review_schedule", "list_due", "failed to iterate schedules", MapError(err))
	}
	return due, nil
}

// ReviewDates implements store.ScheduleStore.ReviewDates
func (s *PostgresScheduleStore) ReviewDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `
		SELECT reviewed_at
		FROM review_events
		WHERE user_id = $1
		ORDER BY reviewed_at
	`, userID)
	if err != nil {
		log.Error("failed to query review events",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("review_event", "list", "failed to query review events", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var dates []time.Time
	for rows.Next() {
		var t time.Time
		if err := rows.Scan(&t); err != nil {
			return nil, store.NewStoreError("review_event", "list", "failed to scan review event", MapError(err))
		}
		dates = append(dates, t.UTC())
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("review_event", "list", "failed to iterate review events", MapError(err))
	}
	return dates, nil
}
