package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/store"
)

// DefaultAppendAttempts bounds how often Append retries after losing an
// attempt-number race to a concurrent writer.
const DefaultAppendAttempts = 5

// PostgresAttemptStore implements the store.AttemptStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAttemptStore struct {
	db          store.DBTX
	logger      *slog.Logger
	maxAttempts uint
	retryDelay  time.Duration
}

// NewPostgresAttemptStore creates a new PostgreSQL implementation of the AttemptStore interface.
// Append relies on a unique-violation retry, so db should be the pool rather
// than a transaction: a failed statement aborts the surrounding transaction.
// If logger is nil, a default logger will be used.
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttemptStore{
		db:          db,
		logger:      logger.With(slog.String("component", "attempt_store")),
		maxAttempts: DefaultAppendAttempts,
		retryDelay:  5 * time.Millisecond,
	}
}

// Ensure PostgresAttemptStore implements store.AttemptStore interface
var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// The attempt number is derived in the same statement as the insert. Two
// concurrent appends for one pair can still compute the same number; the
// attempts_pair_number_key constraint rejects the loser, which retries.
const appendAttemptQuery = `
	INSERT INTO attempts (
		id, user_id, question_id, attempted_at, selected_answer,
		is_correct, time_spent_seconds, attempt_number
	)
	SELECT $1, $2, $3, $4, $5, $6, $7, COUNT(*) + 1
	FROM attempts
	WHERE user_id = $2 AND question_id = $3
	RETURNING attempt_number
`

// Append implements store.AttemptStore.Append
func (s *PostgresAttemptStore) Append(
	ctx context.Context,
	attempt *domain.AttemptRecord,
) (*domain.AttemptRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attempt.Validate(); err != nil {
		log.Warn("attempt validation failed during append",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()))
		return nil, err
	}

	selected, err := json.Marshal(nonNilStrings(attempt.SelectedAnswer))
	if err != nil {
		return nil, fmt.Errorf("%w: selected answer: %v", store.ErrInvalidEntity, err)
	}

	var number int
	err = retry.Do(
		func() error {
			return s.db.QueryRowContext(
				ctx,
				appendAttemptQuery,
				attempt.ID,
				attempt.UserID,
				attempt.QuestionID,
				attempt.AttemptedAt.UTC(),
				string(selected),
				attempt.IsCorrect,
				attempt.TimeSpentSeconds,
			).Scan(&number)
		},
		retry.Context(ctx),
		retry.Attempts(s.maxAttempts),
		retry.Delay(s.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsUniqueViolation),
		retry.OnRetry(func(n uint, err error) {
			log.Debug("attempt number taken, retrying append",
				slog.Uint64("retry", uint64(n+1)),
				slog.String("user_id", attempt.UserID.String()),
				slog.String("question_id", attempt.QuestionID.String()))
		}),
	)
	if err != nil {
		log.Error("failed to append attempt",
			slog.String("error", err.Error()),
			slog.String("attempt_id", attempt.ID.String()),
			slog.String("user_id", attempt.UserID.String()),
			slog.String("question_id", attempt.QuestionID.String()))
		return nil, store.NewStoreError("attempt", "append", "failed to insert attempt", MapError(err))
	}

	stored := *attempt
	stored.AttemptedAt = attempt.AttemptedAt.UTC()
	stored.SelectedAnswer = append([]string(nil), attempt.SelectedAnswer...)
	stored.AttemptNumber = number

	log.Debug("attempt appended",
		slog.String("attempt_id", stored.ID.String()),
		slog.String("user_id", stored.UserID.String()),
		slog.Int("attempt_number", number))
	return &stored, nil
}

// Query implements store.AttemptStore.Query
func (s *PostgresAttemptStore) Query(
	ctx context.Context,
	userID uuid.UUID,
	questionIDs ...uuid.UUID,
) ([]domain.AttemptRecord, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, user_id, question_id, attempted_at, selected_answer,
		       is_correct, time_spent_seconds, attempt_number
		FROM attempts
		WHERE user_id = $1
	`
	args := []any{userID}
	if len(questionIDs) > 0 {
		query += ` AND question_id = ANY($2::uuid[])`
		args = append(args, uuidStrings(questionIDs))
	}
	query += ` ORDER BY attempted_at, attempt_number`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query attempts",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("attempt", "query", "failed to query attempts", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var attempts []domain.AttemptRecord
	for rows.Next() {
		var (
			a        domain.AttemptRecord
			selected []byte
		)
		if err := rows.Scan(
			&a.ID,
			&a.UserID,
			&a.QuestionID,
			&a.AttemptedAt,
			&selected,
			&a.IsCorrect,
			&a.TimeSpentSeconds,
			&a.AttemptNumber,
		); err != nil {
			return nil, store.NewStoreError("attempt", "query", "failed to scan attempt", MapError(err))
		}
		if err := json.Unmarshal(selected, &a.SelectedAnswer); err != nil {
			return nil, store.NewStoreError("attempt", "query", "malformed selected answer", err)
		}
		a.AttemptedAt = a.AttemptedAt.UTC()
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("attempt", "query", "failed to iterate attempts", MapError(err))
	}

	log.Debug("attempts queried",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(attempts)))
	return attempts, nil
}

func nonNilStrings(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
