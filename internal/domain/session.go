package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SessionMode describes how a practice session's questions were chosen.
type SessionMode string

// Supported session modes.
const (
	SessionModeRecommended SessionMode = "recommended"
	SessionModeTimed       SessionMode = "timed"
	SessionModeCustom      SessionMode = "custom"
	SessionModeWellness    SessionMode = "wellness"
)

// Valid reports whether m is a known session mode.
func (m SessionMode) Valid() bool {
	switch m {
	case SessionModeRecommended, SessionModeTimed, SessionModeCustom, SessionModeWellness:
		return true
	}
	return false
}

// SessionStatus is the lifecycle state of a practice session.
type SessionStatus string

// Session states. Completed and abandoned are terminal.
const (
	SessionStatusInProgress SessionStatus = "in_progress"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusAbandoned  SessionStatus = "abandoned"
)

// Valid reports whether s is a known session status.
func (s SessionStatus) Valid() bool {
	switch s {
	case SessionStatusInProgress, SessionStatusCompleted, SessionStatusAbandoned:
		return true
	}
	return false
}

// IsTerminal reports whether no transition may leave s.
func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusAbandoned
}

// Session validation errors.
var (
	ErrInvalidSessionMode   = fmt.Errorf("%w: unknown session mode", ErrInvalidInput)
	ErrInvalidSessionStatus = fmt.Errorf("%w: unknown session status", ErrInvalidInput)
	ErrEmptyQuestionList    = fmt.Errorf("%w: session requires at least one question", ErrInvalidInput)
	ErrQuestionIndexRange   = fmt.Errorf("%w: question index out of range", ErrInvalidInput)
	ErrQuestionIndexBack    = fmt.Errorf("%w: question index cannot move backwards", ErrInvalidInput)
	ErrSessionResults       = fmt.Errorf("%w: results must be present exactly when completed", ErrInvalidInput)
	ErrSessionNotInProgress = fmt.Errorf("%w: session is not in progress", ErrInvalidState)
)

// PracticeSession is a bounded, ordered run of questions a learner works through.
type PracticeSession struct {
	ID                   uuid.UUID       `json:"id"`
	UserID               uuid.UUID       `json:"user_id"`
	Mode                 SessionMode     `json:"mode"`
	QuestionIDs          []uuid.UUID     `json:"question_ids"`
	StartedAt            time.Time       `json:"started_at"`
	CompletedAt          *time.Time      `json:"completed_at,omitempty"`
	Status               SessionStatus   `json:"status"`
	CurrentQuestionIndex int             `json:"current_question_index"`
	Results              *SessionResults `json:"results,omitempty"`
}

// SessionProgress is the derived position of a learner within a session.
type SessionProgress struct {
	Current   int `json:"current"`
	Total     int `json:"total"`
	Answered  int `json:"answered"`
	Remaining int `json:"remaining"`
}

// SessionResults is the aggregate stored when a session completes.
type SessionResults struct {
	Stats
	CompletedQuestions int `json:"completed_questions"`
	TotalQuestions     int `json:"total_questions"`
}

// NewPracticeSession starts a session over the given questions.
func NewPracticeSession(
	userID uuid.UUID,
	mode SessionMode,
	questionIDs []uuid.UUID,
	now time.Time,
) (*PracticeSession, error) {
	s := &PracticeSession{
		ID:                   uuid.New(),
		UserID:               userID,
		Mode:                 mode,
		QuestionIDs:          append([]uuid.UUID(nil), questionIDs...),
		StartedAt:            now.UTC(),
		Status:               SessionStatusInProgress,
		CurrentQuestionIndex: 0,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Validate checks the session's invariants.
func (s *PracticeSession) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if !s.Mode.Valid() {
		return ErrInvalidSessionMode
	}
	if len(s.QuestionIDs) == 0 {
		return ErrEmptyQuestionList
	}
	for _, id := range s.QuestionIDs {
		if id == uuid.Nil {
			return ErrEmptyQuestionID
		}
	}
	if !s.Status.Valid() {
		return ErrInvalidSessionStatus
	}
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex > len(s.QuestionIDs) {
		return ErrQuestionIndexRange
	}
	if (s.Results != nil) != (s.Status == SessionStatusCompleted) {
		return ErrSessionResults
	}
	return nil
}

// Progress derives the learner's position. Once every question has been
// answered Current stays at Total.
func (s *PracticeSession) Progress() SessionProgress {
	total := len(s.QuestionIDs)
	answered := s.CurrentQuestionIndex
	current := answered + 1
	if current > total {
		current = total
	}
	return SessionProgress{
		Current:   current,
		Total:     total,
		Answered:  answered,
		Remaining: total - answered,
	}
}

// CheckAdvance validates moving the current index to index.
func (s *PracticeSession) CheckAdvance(index int) error {
	if s.Status != SessionStatusInProgress {
		return ErrSessionNotInProgress
	}
	if index < s.CurrentQuestionIndex {
		return ErrQuestionIndexBack
	}
	if index > len(s.QuestionIDs) {
		return ErrQuestionIndexRange
	}
	return nil
}
