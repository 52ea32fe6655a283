package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/store"
)

// QuestionCatalog is an in-memory store.QuestionCatalog.
type QuestionCatalog struct {
	mu         sync.RWMutex
	categories map[uuid.UUID]string
}

var _ store.QuestionCatalog = (*QuestionCatalog)(nil)

// NewQuestionCatalog returns a catalog seeded with categories.
func NewQuestionCatalog(categories map[uuid.UUID]string) *QuestionCatalog {
	c := &QuestionCatalog{categories: make(map[uuid.UUID]string, len(categories))}
	for id, category := range categories {
		c.Set(id, category)
	}
	return c
}

// Set assigns a category to a question. An empty category removes it.
func (c *QuestionCatalog) Set(questionID uuid.UUID, category string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if category == "" {
		delete(c.categories, questionID)
		return
	}
	c.categories[questionID] = category
}

// Categories implements store.QuestionCatalog.
func (c *QuestionCatalog) Categories(_ context.Context, questionIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[uuid.UUID]string, len(questionIDs))
	for _, id := range questionIDs {
		if category, ok := c.categories[id]; ok {
			out[id] = category
		}
	}
	return out, nil
}
