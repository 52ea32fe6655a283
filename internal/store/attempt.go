package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
)

// AttemptStore is the append-only log of attempt records.
type AttemptStore interface {
	// Append stores a new attempt and returns it with AttemptNumber set to the
	// count of prior records for the same (user, question) plus one. The
	// count-then-insert must be atomic per pair.
	// Returns domain validation errors if the record is invalid.
	Append(ctx context.Context, attempt *domain.AttemptRecord) (*domain.AttemptRecord, error)

	// Query returns the user's attempts ordered by AttemptedAt ascending.
	// When questionIDs is non-empty only attempts on those questions are returned.
	Query(ctx context.Context, userID uuid.UUID, questionIDs ...uuid.UUID) ([]domain.AttemptRecord, error)
}
