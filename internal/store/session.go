package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
)

// SessionUpdate lists the mutable fields of a practice session. Nil fields are
// left untouched. ExpectStatus, when set, makes the update conditional: it is
// applied only if the stored status still matches, otherwise ErrConflict is
// returned and nothing changes. CurrentQuestionIndex is checked against the
// stored index, so a stale caller cannot move it backwards.
type SessionUpdate struct {
	ExpectStatus         *domain.SessionStatus
	Status               *domain.SessionStatus
	CurrentQuestionIndex *int
	CompletedAt          *time.Time
	Results              *domain.SessionResults
}

// SessionFilter narrows List. Zero values match everything.
type SessionFilter struct {
	Status domain.SessionStatus
	Mode   domain.SessionMode
	Limit  int
}

// SessionStore persists practice sessions. Every lookup is scoped by user:
// a session owned by someone else is reported as not found.
type SessionStore interface {
	// Create saves a new session.
	// Returns domain validation errors if the session is invalid.
	Create(ctx context.Context, session *domain.PracticeSession) error

	// Get retrieves a session.
	// Returns ErrSessionNotFound if it does not exist or belongs to another user.
	Get(ctx context.Context, sessionID, userID uuid.UUID) (*domain.PracticeSession, error)

	// Update applies the changes atomically and returns the stored result.
	// Returns ErrSessionNotFound or, for a failed precondition, ErrConflict.
	Update(ctx context.Context, sessionID, userID uuid.UUID, update SessionUpdate) (*domain.PracticeSession, error)

	// List returns the user's sessions matching filter, newest first.
	List(ctx context.Context, userID uuid.UUID, filter SessionFilter) ([]*domain.PracticeSession, error)
}

// Apply validates update against s and writes the changes into s. Adapters
// call it on the stored copy inside their atomic section.
func (u SessionUpdate) Apply(s *domain.PracticeSession) error {
	if u.ExpectStatus != nil && s.Status != *u.ExpectStatus {
		return ErrConflict
	}
	// Terminal sessions never change state again.
	if u.Status != nil && s.Status.IsTerminal() && *u.Status != s.Status {
		return ErrConflict
	}
	if u.CurrentQuestionIndex != nil && *u.CurrentQuestionIndex < s.CurrentQuestionIndex {
		return domain.ErrQuestionIndexBack
	}

	if u.Status != nil {
		s.Status = *u.Status
	}
	if u.CurrentQuestionIndex != nil {
		s.CurrentQuestionIndex = *u.CurrentQuestionIndex
	}
	if u.CompletedAt != nil {
		t := u.CompletedAt.UTC()
		s.CompletedAt = &t
	}
	if u.Results != nil {
		r := *u.Results
		s.Results = &r
	}

	return s.Validate()
}

// Matches reports whether s passes the filter's status and mode criteria.
func (f SessionFilter) Matches(s *domain.PracticeSession) bool {
	if f.Status != "" && s.Status != f.Status {
		return false
	}
	if f.Mode != "" && s.Mode != f.Mode {
		return false
	}
	return true
}
