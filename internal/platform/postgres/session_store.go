package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the SessionStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

const sessionColumns = `
	id, user_id, mode, question_ids, started_at, completed_at,
	status, current_question_index, results
`

func scanSession(row rowScanner) (*domain.PracticeSession, error) {
	var (
		s           domain.PracticeSession
		mode        string
		status      string
		questionIDs []byte
		completedAt sql.NullTime
		results     []byte
	)
	if err := row.Scan(
		&s.ID,
		&s.UserID,
		&mode,
		&questionIDs,
		&s.StartedAt,
		&completedAt,
		&status,
		&s.CurrentQuestionIndex,
		&results,
	); err != nil {
		return nil, err
	}

	s.Mode = domain.SessionMode(mode)
	s.Status = domain.SessionStatus(status)
	s.StartedAt = s.StartedAt.UTC()
	if completedAt.Valid {
		t := completedAt.Time.UTC()
		s.CompletedAt = &t
	}
	if err := json.Unmarshal(questionIDs, &s.QuestionIDs); err != nil {
		return nil, fmt.Errorf("malformed question_ids: %w", err)
	}
	if len(results) > 0 {
		s.Results = &domain.SessionResults{}
		if err := json.Unmarshal(results, s.Results); err != nil {
			return nil, fmt.Errorf("malformed results: %w", err)
		}
	}
	return &s, nil
}

// Create implements store.SessionStore.Create
func (s *PostgresSessionStore) Create(ctx context.Context, session *domain.PracticeSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	questionIDs, err := json.Marshal(session.QuestionIDs)
	if err != nil {
		return fmt.Errorf("%w: question ids: %v", store.ErrInvalidEntity, err)
	}
	results, err := marshalResults(session.Results)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO practice_sessions (`+sessionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		session.ID,
		session.UserID,
		string(session.Mode),
		string(questionIDs),
		session.StartedAt.UTC(),
		nullTime(session.CompletedAt),
		string(session.Status),
		session.CurrentQuestionIndex,
		results,
	)
	if err != nil {
		log.Error("failed to create session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("user_id", session.UserID.String()))
		return store.NewStoreError("session", "create", "failed to insert session", MapError(err))
	}

	log.Info("practice session created",
		slog.String("session_id", session.ID.String()),
		slog.String("user_id", session.UserID.String()),
		slog.String("mode", string(session.Mode)),
		slog.Int("questions", len(session.QuestionIDs)))
	return nil
}

// Get implements store.SessionStore.Get
func (s *PostgresSessionStore) Get(
	ctx context.Context,
	sessionID, userID uuid.UUID,
) (*domain.PracticeSession, error) {
	return s.get(ctx, s.db, sessionID, userID, false)
}

func (s *PostgresSessionStore) get(
	ctx context.Context,
	db store.DBTX,
	sessionID, userID uuid.UUID,
	forUpdate bool,
) (*domain.PracticeSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + sessionColumns + `
		FROM practice_sessions
		WHERE id = $1 AND user_id = $2
	`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	session, err := scanSession(db.QueryRowContext(ctx, query, sessionID, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("session not found",
				slog.String("session_id", sessionID.String()),
				slog.String("user_id", userID.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get session",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, store.NewStoreError("session", "get", "failed to get session", MapError(err))
	}
	return session, nil
}

// Update implements store.SessionStore.Update
// The row is locked for the duration of the read-check-write, so a
// conditional update cannot interleave with another writer.
func (s *PostgresSessionStore) Update(
	ctx context.Context,
	sessionID, userID uuid.UUID,
	update store.SessionUpdate,
) (*domain.PracticeSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var updated *domain.PracticeSession
	err := store.WithTx(ctx, s.db, func(tx store.DBTX) error {
		session, err := s.get(ctx, tx, sessionID, userID, true)
		if err != nil {
			return err
		}
		if err := update.Apply(session); err != nil {
			return err
		}

		results, err := marshalResults(session.Results)
		if err != nil {
			return err
		}

		result, err := tx.ExecContext(ctx, `
			UPDATE practice_sessions
			SET status = $3,
			    current_question_index = $4,
			    completed_at = $5,
			    results = $6
			WHERE id = $1 AND user_id = $2
		`,
			sessionID,
			userID,
			string(session.Status),
			session.CurrentQuestionIndex,
			nullTime(session.CompletedAt),
			results,
		)
		if err != nil {
			return store.NewStoreError("session", "update", "failed to update session", MapError(err))
		}
		if err := CheckRowsAffected(result, "session"); err != nil {
			return store.ErrSessionNotFound
		}

		updated = session
		return nil
	})
	if err != nil {
		log.Debug("session update rejected",
			slog.String("error", err.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, err
	}

	log.Info("practice session updated",
		slog.String("session_id", sessionID.String()),
		slog.String("status", string(updated.Status)),
		slog.Int("current_question_index", updated.CurrentQuestionIndex))
	return updated, nil
}

// List implements store.SessionStore.List
func (s *PostgresSessionStore) List(
	ctx context.Context,
	userID uuid.UUID,
	filter store.SessionFilter,
) ([]*domain.PracticeSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var query strings.Builder
	query.WriteString(`SELECT ` + sessionColumns + ` FROM practice_sessions WHERE user_id = $1`)
	args := []any{userID}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		fmt.Fprintf(&query, " AND status = $%d", len(args))
	}
	if filter.Mode != "" {
		args = append(args, string(filter.Mode))
		fmt.Fprintf(&query, " AND mode = $%d", len(args))
	}
	query.WriteString(" ORDER BY started_at DESC, id")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		fmt.Fprintf(&query, " LIMIT $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		log.Error("failed to list sessions",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("session", "list", "failed to query sessions", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	var sessions []*domain.PracticeSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, store.NewStoreError("session", "list", "failed to scan session", MapError(err))
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("session", "list", "failed to iterate sessions", MapError(err))
	}
	return sessions, nil
}

func marshalResults(results *domain.SessionResults) (any, error) {
	if results == nil {
		return nil, nil
	}
	b, err := json.Marshal(results)
	if err != nil {
		return nil, fmt.Errorf("%w: session results: %v", store.ErrInvalidEntity, err)
	}
	return string(b), nil
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
