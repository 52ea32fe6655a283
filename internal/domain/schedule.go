package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MinQuality and MaxQuality bound the recall rating accepted by the scheduler.
const (
	MinQuality = 0
	MaxQuality = 5

	// MinEasinessFactor is the floor below which an ease factor never drops.
	MinEasinessFactor = 1.3
)

var (
	ErrInvalidInterval    = fmt.Errorf("%w: interval must be greater than or equal to 0", ErrInvalidInput)
	ErrInvalidRepetitions = fmt.Errorf("%w: repetitions must be greater than or equal to 0", ErrInvalidInput)
	ErrInvalidEaseFactor  = fmt.Errorf("%w: easiness factor must be at least 1.3", ErrInvalidInput)
)

// ReviewSchedule is the spaced repetition state of one (user, question) pair.
// At most one exists per pair; every review overwrites it.
type ReviewSchedule struct {
	UserID         uuid.UUID `json:"user_id"`
	QuestionID     uuid.UUID `json:"question_id"`
	EasinessFactor float64   `json:"easiness_factor"`
	Interval       int       `json:"interval"` // days
	Repetitions    int       `json:"repetitions"`
	NextReviewDate time.Time `json:"next_review_date"`
	LastReviewDate time.Time `json:"last_review_date"`
	LastQuality    int       `json:"last_quality"`
}

// ValidQuality reports whether q is an accepted recall rating.
func ValidQuality(q int) bool {
	return q >= MinQuality && q <= MaxQuality
}

// Validate checks the schedule's invariants.
func (s *ReviewSchedule) Validate() error {
	if s.UserID == uuid.Nil {
		return ErrEmptyUserID
	}
	if s.QuestionID == uuid.Nil {
		return ErrEmptyQuestionID
	}
	if s.Interval < 0 {
		return ErrInvalidInterval
	}
	if s.Repetitions < 0 {
		return ErrInvalidRepetitions
	}
	// Small tolerance for floating point drift around the floor.
	if s.EasinessFactor < MinEasinessFactor-1e-9 {
		return ErrInvalidEaseFactor
	}
	if !ValidQuality(s.LastQuality) {
		return ErrInvalidQuality
	}
	return nil
}

// IsDue reports whether the schedule's next review is at or before asOf.
func (s *ReviewSchedule) IsDue(asOf time.Time) bool {
	return !s.NextReviewDate.After(asOf)
}
