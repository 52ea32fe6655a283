package store

import (
	"context"

	"github.com/google/uuid"
)

// QuestionCatalog exposes the question metadata the analytics need.
type QuestionCatalog interface {
	// Categories returns the category of each known question. Unknown ids
	// and questions without a category are omitted from the map.
	Categories(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID]string, error)
}
