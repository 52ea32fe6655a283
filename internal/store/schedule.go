package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
)

// ScheduleStore persists one review schedule per (user, question) pair.
type ScheduleStore interface {
	// Get retrieves the schedule for the pair.
	// Returns ErrScheduleNotFound if no review has been submitted yet.
	Get(ctx context.Context, userID, questionID uuid.UUID) (*domain.ReviewSchedule, error)

	// Upsert creates or overwrites the pair's schedule. Concurrent upserts are
	// last-write-wins. Every upsert also records a review event at
	// LastReviewDate, which feeds the review streak.
	Upsert(ctx context.Context, schedule *domain.ReviewSchedule) error

	// ListDue returns the user's schedules with NextReviewDate at or before
	// asOf, earliest due first.
	ListDue(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.ReviewSchedule, error)

	// ReviewDates returns the timestamps of every review the user submitted.
	ReviewDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error)
}
