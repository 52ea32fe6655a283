package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttemptRecord is one learner's answer to one question at one point in time.
// Records are immutable once appended.
type AttemptRecord struct {
	ID               uuid.UUID `json:"id"`
	UserID           uuid.UUID `json:"user_id"`
	QuestionID       uuid.UUID `json:"question_id"`
	AttemptedAt      time.Time `json:"attempted_at"`
	SelectedAnswer   []string  `json:"selected_answer"`
	IsCorrect        bool      `json:"is_correct"`
	TimeSpentSeconds int       `json:"time_spent_seconds"`
	// AttemptNumber is assigned by the attempt store: the count of prior
	// records for the same (user, question) plus one.
	AttemptNumber int `json:"attempt_number"`
}

// NewAttemptRecord builds an unnumbered attempt ready to be appended.
func NewAttemptRecord(
	userID, questionID uuid.UUID,
	selected []string,
	isCorrect bool,
	timeSpentSeconds int,
	attemptedAt time.Time,
) (*AttemptRecord, error) {
	rec := &AttemptRecord{
		ID:               uuid.New(),
		UserID:           userID,
		QuestionID:       questionID,
		AttemptedAt:      attemptedAt.UTC(),
		SelectedAnswer:   append([]string(nil), selected...),
		IsCorrect:        isCorrect,
		TimeSpentSeconds: timeSpentSeconds,
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Validate checks the fields the caller supplies. AttemptNumber is not
// checked because it is assigned at write time.
func (a *AttemptRecord) Validate() error {
	if a.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if a.QuestionID == uuid.Nil {
		return ErrEmptyQuestionID
	}
	if a.AttemptedAt.IsZero() {
		return ErrMissingTimestamp
	}
	if a.TimeSpentSeconds < 0 {
		return ErrNegativeTime
	}
	return nil
}
