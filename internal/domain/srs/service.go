package srs

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
)

// Common errors
var (
	ErrNilSchedule      = fmt.Errorf("%w: review schedule cannot be nil", domain.ErrInvalidInput)
	ErrInvalidDays      = fmt.Errorf("%w: postpone days must be at least 1", domain.ErrInvalidInput)
	ErrScheduleMismatch = fmt.Errorf("%w: schedule belongs to a different user or question", domain.ErrInvalidInput)
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// Schedule computes the schedule that results from reviewing a question
	// with the given quality. existing is nil for a question's first review.
	Schedule(
		userID, questionID uuid.UUID,
		existing *domain.ReviewSchedule,
		quality int,
		now time.Time,
	) (*domain.ReviewSchedule, error)

	// Postpone pushes the next review forward by days without touching the
	// ease factor, interval or repetitions.
	Postpone(
		existing *domain.ReviewSchedule,
		days int,
		now time.Time,
	) (*domain.ReviewSchedule, error)
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) (Service, error) {
	if params == nil {
		return nil, errors.Join(ErrInvalidParams, errors.New("params cannot be nil"))
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &defaultService{params: params}, nil
}

// Schedule implements Service.
func (s *defaultService) Schedule(
	userID, questionID uuid.UUID,
	existing *domain.ReviewSchedule,
	quality int,
	now time.Time,
) (*domain.ReviewSchedule, error) {
	if userID == uuid.Nil {
		return nil, domain.ErrEmptyUserID
	}
	if questionID == uuid.Nil {
		return nil, domain.ErrEmptyQuestionID
	}
	if !domain.ValidQuality(quality) {
		return nil, domain.ErrInvalidQuality
	}

	now = now.UTC()
	if existing == nil {
		return calculateFirstSchedule(userID, questionID, quality, now, s.params), nil
	}

	if existing.UserID != userID || existing.QuestionID != questionID {
		return nil, ErrScheduleMismatch
	}

	return calculateNextSchedule(existing, quality, now, s.params), nil
}

// Postpone implements Service.
func (s *defaultService) Postpone(
	existing *domain.ReviewSchedule,
	days int,
	now time.Time,
) (*domain.ReviewSchedule, error) {
	if existing == nil {
		return nil, ErrNilSchedule
	}
	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := *existing

	// A review that is already overdue is postponed relative to now.
	base := existing.NextReviewDate
	if now = now.UTC(); base.Before(now) {
		base = now
	}
	next.NextReviewDate = base.AddDate(0, 0, days)

	return &next, nil
}
