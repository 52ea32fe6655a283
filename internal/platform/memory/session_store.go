package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/store"
)

// SessionStore is an in-memory store.SessionStore.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*domain.PracticeSession
}

var _ store.SessionStore = (*SessionStore)(nil)

// NewSessionStore returns an empty SessionStore.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[uuid.UUID]*domain.PracticeSession)}
}

// Create implements store.SessionStore.
func (s *SessionStore) Create(_ context.Context, session *domain.PracticeSession) error {
	if err := session.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[session.ID]; exists {
		return store.ErrDuplicate
	}
	s.sessions[session.ID] = copySession(session)
	return nil
}

// Get implements store.SessionStore.
func (s *SessionStore) Get(_ context.Context, sessionID, userID uuid.UUID) (*domain.PracticeSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[sessionID]
	if !ok || session.UserID != userID {
		return nil, store.ErrSessionNotFound
	}
	return copySession(session), nil
}

// Update implements store.SessionStore. The check and the write happen under
// one lock, so conditional updates are atomic.
func (s *SessionStore) Update(
	_ context.Context,
	sessionID, userID uuid.UUID,
	update store.SessionUpdate,
) (*domain.PracticeSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.sessions[sessionID]
	if !ok || current.UserID != userID {
		return nil, store.ErrSessionNotFound
	}

	next := copySession(current)
	if err := update.Apply(next); err != nil {
		return nil, err
	}
	s.sessions[sessionID] = next
	return copySession(next), nil
}

// List implements store.SessionStore.
func (s *SessionStore) List(
	_ context.Context,
	userID uuid.UUID,
	filter store.SessionFilter,
) ([]*domain.PracticeSession, error) {
	s.mu.RLock()
	var out []*domain.PracticeSession
	for _, session := range s.sessions {
		if session.UserID == userID && filter.Matches(session) {
			out = append(out, copySession(session))
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func copySession(s *domain.PracticeSession) *domain.PracticeSession {
	c := *s
	c.QuestionIDs = append([]uuid.UUID(nil), s.QuestionIDs...)
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	if s.Results != nil {
		r := *s.Results
		r.CategoryStats = append([]domain.CategoryStat(nil), s.Results.CategoryStats...)
		c.Results = &r
	}
	return &c
}
