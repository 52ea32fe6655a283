package srs

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServiceWithParams(t *testing.T) {
	t.Parallel()

	_, err := NewServiceWithParams(nil)
	assert.ErrorIs(t, err, ErrInvalidParams)

	_, err = NewServiceWithParams(&Params{MinEaseFactor: 1.0})
	assert.ErrorIs(t, err, ErrInvalidParams)

	svc, err := NewServiceWithParams(NewDefaultParams())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestScheduleFirstReview(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	userID, questionID := uuid.New(), uuid.New()
	now := time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)

	for q := 3; q <= 5; q++ {
		got, err := svc.Schedule(userID, questionID, nil, q, now)
		require.NoError(t, err)

		assert.Equal(t, userID, got.UserID)
		assert.Equal(t, questionID, got.QuestionID)
		assert.Equal(t, 1, got.Repetitions, "quality %d", q)
		assert.Equal(t, 1, got.Interval, "quality %d", q)
		assert.Equal(t, 2.5, got.EasinessFactor, "quality %d", q)
		assert.Equal(t, now, got.LastReviewDate)
		assert.Equal(t, now.AddDate(0, 0, 1), got.NextReviewDate)
		assert.Equal(t, q, got.LastQuality)
		assert.NoError(t, got.Validate())
	}
}

func TestScheduleFailingReviewResets(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	userID, questionID := uuid.New(), uuid.New()
	now := time.Now().UTC()

	histories := []*domain.ReviewSchedule{
		nil,
		{UserID: userID, QuestionID: questionID, EasinessFactor: 2.5, Interval: 1, Repetitions: 1},
		{UserID: userID, QuestionID: questionID, EasinessFactor: 2.1, Interval: 6, Repetitions: 2},
		{UserID: userID, QuestionID: questionID, EasinessFactor: 2.8, Interval: 120, Repetitions: 9},
		{UserID: userID, QuestionID: questionID, EasinessFactor: 1.3, Interval: 3, Repetitions: 0},
	}

	for i, existing := range histories {
		for q := 0; q < 3; q++ {
			got, err := svc.Schedule(userID, questionID, existing, q, now)
			require.NoError(t, err)
			assert.Equal(t, 0, got.Repetitions, "history %d quality %d", i, q)
			assert.Equal(t, 1, got.Interval, "history %d quality %d", i, q)
			assert.GreaterOrEqual(t, got.EasinessFactor, domain.MinEasinessFactor)
		}
	}
}

func TestScheduleRejectsInvalidQuality(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()

	for _, q := range []int{-1, 6, 100} {
		_, err := svc.Schedule(uuid.New(), uuid.New(), nil, q, time.Now())
		assert.ErrorIs(t, err, domain.ErrInvalidQuality)
		assert.True(t, domain.IsInvalidInput(err))
	}
}

func TestScheduleRejectsMismatchedSchedule(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	existing := &domain.ReviewSchedule{UserID: uuid.New(), QuestionID: uuid.New(), EasinessFactor: 2.5}

	_, err := svc.Schedule(existing.UserID, uuid.New(), existing, 4, time.Now())
	assert.ErrorIs(t, err, ErrScheduleMismatch)
}

func TestSchedulePerfectSequence(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	userID, questionID := uuid.New(), uuid.New()
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

	var current *domain.ReviewSchedule
	wantIntervals := []int{1, 6, 16}
	wantEase := []float64{2.5, 2.6, 2.7}

	for i := range wantIntervals {
		next, err := svc.Schedule(userID, questionID, current, 5, now)
		require.NoError(t, err)

		assert.Equal(t, wantIntervals[i], next.Interval, "review %d", i+1)
		assert.InDelta(t, wantEase[i], next.EasinessFactor, 1e-9, "review %d", i+1)
		assert.Equal(t, i+1, next.Repetitions)
		assert.Equal(t, now.AddDate(0, 0, next.Interval), next.NextReviewDate)

		current = next
		now = next.NextReviewDate
	}
}

func TestScheduleEaseNeverBelowFloor(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	userID, questionID := uuid.New(), uuid.New()
	now := time.Now().UTC()

	var current *domain.ReviewSchedule
	qualities := []int{5, 0, 1, 2, 0, 3, 0, 0, 1, 4, 0, 2, 0, 0}
	for _, q := range qualities {
		next, err := svc.Schedule(userID, questionID, current, q, now)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, next.EasinessFactor, domain.MinEasinessFactor)
		require.NoError(t, next.Validate())
		current = next
	}
}

func TestPostpone(t *testing.T) {
	t.Parallel()
	svc := NewDefaultService()
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	existing := &domain.ReviewSchedule{
		UserID:         uuid.New(),
		QuestionID:     uuid.New(),
		EasinessFactor: 2.36,
		Interval:       6,
		Repetitions:    2,
		LastReviewDate: now.AddDate(0, 0, -2),
		NextReviewDate: now.AddDate(0, 0, 4),
		LastQuality:    3,
	}

	t.Run("future review moves by days", func(t *testing.T) {
		got, err := svc.Postpone(existing, 3, now)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, 0, 7), got.NextReviewDate)
		assert.Equal(t, existing.EasinessFactor, got.EasinessFactor)
		assert.Equal(t, existing.Interval, got.Interval)
		assert.Equal(t, existing.Repetitions, got.Repetitions)
		assert.Equal(t, now.AddDate(0, 0, 4), existing.NextReviewDate, "input unchanged")
	})

	t.Run("overdue review moves relative to now", func(t *testing.T) {
		overdue := *existing
		overdue.NextReviewDate = now.AddDate(0, 0, -5)

		got, err := svc.Postpone(&overdue, 2, now)
		require.NoError(t, err)
		assert.Equal(t, now.AddDate(0, 0, 2), got.NextReviewDate)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := svc.Postpone(existing, 0, now)
		assert.ErrorIs(t, err, ErrInvalidDays)

		_, err = svc.Postpone(nil, 1, now)
		assert.ErrorIs(t, err, ErrNilSchedule)
	})
}
