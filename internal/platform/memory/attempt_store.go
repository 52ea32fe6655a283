package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/store"
)

type pairKey struct {
	userID     uuid.UUID
	questionID uuid.UUID
}

// AttemptStore is an in-memory store.AttemptStore.
type AttemptStore struct {
	mu       sync.RWMutex
	byUser   map[uuid.UUID][]domain.AttemptRecord
	counters map[pairKey]int
}

var _ store.AttemptStore = (*AttemptStore)(nil)

// NewAttemptStore returns an empty AttemptStore.
func NewAttemptStore() *AttemptStore {
	return &AttemptStore{
		byUser:   make(map[uuid.UUID][]domain.AttemptRecord),
		counters: make(map[pairKey]int),
	}
}

// Append implements store.AttemptStore.
func (s *AttemptStore) Append(_ context.Context, attempt *domain.AttemptRecord) (*domain.AttemptRecord, error) {
	if err := attempt.Validate(); err != nil {
		return nil, err
	}

	stored := copyAttempt(*attempt)
	stored.AttemptedAt = stored.AttemptedAt.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	key := pairKey{userID: attempt.UserID, questionID: attempt.QuestionID}
	s.counters[key]++
	stored.AttemptNumber = s.counters[key]
	s.byUser[attempt.UserID] = append(s.byUser[attempt.UserID], stored)

	out := copyAttempt(stored)
	return &out, nil
}

// Query implements store.AttemptStore.
func (s *AttemptStore) Query(
	_ context.Context,
	userID uuid.UUID,
	questionIDs ...uuid.UUID,
) ([]domain.AttemptRecord, error) {
	var keep map[uuid.UUID]struct{}
	if len(questionIDs) > 0 {
		keep = make(map[uuid.UUID]struct{}, len(questionIDs))
		for _, id := range questionIDs {
			keep[id] = struct{}{}
		}
	}

	s.mu.RLock()
	out := make([]domain.AttemptRecord, 0, len(s.byUser[userID]))
	for _, a := range s.byUser[userID] {
		if keep != nil {
			if _, ok := keep[a.QuestionID]; !ok {
				continue
			}
		}
		out = append(out, copyAttempt(a))
	}
	s.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].AttemptedAt.Equal(out[j].AttemptedAt) {
			return out[i].AttemptedAt.Before(out[j].AttemptedAt)
		}
		return out[i].AttemptNumber < out[j].AttemptNumber
	})
	return out, nil
}

func copyAttempt(a domain.AttemptRecord) domain.AttemptRecord {
	a.SelectedAnswer = append([]string(nil), a.SelectedAnswer...)
	return a
}
