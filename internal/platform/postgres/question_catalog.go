package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/platform/logger"
	"github.com/phrazzld/scry-progress/internal/store"
)

// PostgresQuestionCatalog implements store.QuestionCatalog over the
// question_categories table.
type PostgresQuestionCatalog struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresQuestionCatalog creates a new PostgreSQL implementation of the QuestionCatalog interface.
func NewPostgresQuestionCatalog(db store.DBTX, logger *slog.Logger) *PostgresQuestionCatalog {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresQuestionCatalog{
		db:     db,
		logger: logger.With(slog.String("component", "question_catalog")),
	}
}

var _ store.QuestionCatalog = (*PostgresQuestionCatalog)(nil)

// Categories implements store.QuestionCatalog.Categories
func (c *PostgresQuestionCatalog) Categories(
	ctx context.Context,
	questionIDs []uuid.UUID,
) (map[uuid.UUID]string, error) {
	categories := make(map[uuid.UUID]string, len(questionIDs))
	if len(questionIDs) == 0 {
		return categories, nil
	}

	log := logger.FromContextOrDefault(ctx, c.logger)

	rows, err := c.db.QueryContext(ctx, `
		SELECT question_id, category
		FROM question_categories
		WHERE question_id = ANY($1::uuid[])
	`, uuidStrings(questionIDs))
	if err != nil {
		log.Error("failed to query question categories",
			slog.String("error", err.Error()),
			slog.Int("questions", len(questionIDs)))
		return nil, store.NewStoreError("question", "categories", "failed to query categories", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var (
			id       uuid.UUID
			category string
		)
		if err := rows.Scan(&id, &category); err != nil {
			return nil, store.NewStoreError("question", "categories", "failed to scan category", MapError(err))
		}
		categories[id] = category
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("question", "categories", "failed to iterate categories", MapError(err))
	}
	return categories, nil
}
