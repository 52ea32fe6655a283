package progress

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func attempt(questionID uuid.UUID, at time.Time, correct bool, seconds, number int) domain.AttemptRecord {
	return domain.AttemptRecord{
		ID:               uuid.New(),
		QuestionID:       questionID,
		AttemptedAt:      at,
		IsCorrect:        correct,
		TimeSpentSeconds: seconds,
		AttemptNumber:    number,
	}
}

func TestLatestAttempts(t *testing.T) {
	t.Parallel()

	q1, q2 := uuid.New(), uuid.New()
	attempts := []domain.AttemptRecord{
		attempt(q1, base.Add(2*time.Hour), true, 10, 2),
		attempt(q1, base, false, 20, 1),
		attempt(q2, base.Add(time.Hour), false, 5, 1),
	}

	got := LatestAttempts(attempts)
	require.Len(t, got, 2)

	assert.Equal(t, q2, got[0].QuestionID, "ordered by attempted time")
	assert.Equal(t, q1, got[1].QuestionID)
	assert.True(t, got[1].IsCorrect, "latest attempt wins")
	assert.Equal(t, 2, got[1].AttemptNumber)
}

func TestLatestAttemptsTieBreaksOnAttemptNumber(t *testing.T) {
	t.Parallel()

	q := uuid.New()
	attempts := []domain.AttemptRecord{
		attempt(q, base, true, 1, 3),
		attempt(q, base, false, 1, 4),
		attempt(q, base, true, 1, 2),
	}

	got := LatestAttempts(attempts)
	require.Len(t, got, 1)
	assert.Equal(t, 4, got[0].AttemptNumber)
	assert.False(t, got[0].IsCorrect)
}

func TestLatestAttemptsEmpty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, LatestAttempts(nil))
}

func TestFilters(t *testing.T) {
	t.Parallel()

	q1, q2, q3 := uuid.New(), uuid.New(), uuid.New()
	attempts := []domain.AttemptRecord{
		attempt(q1, base.Add(-time.Minute), true, 1, 1),
		attempt(q1, base, false, 1, 2),
		attempt(q2, base.Add(time.Hour), true, 1, 1),
		attempt(q3, base.Add(time.Hour), true, 1, 1),
	}

	since := FilterSince(attempts, base)
	assert.Len(t, since, 3, "boundary is inclusive")

	scoped := FilterQuestions(attempts, []uuid.UUID{q1, q2})
	assert.Len(t, scoped, 3)
	for _, a := range scoped {
		assert.NotEqual(t, q3, a.QuestionID)
	}

	assert.Empty(t, FilterQuestions(attempts, nil))
}

func TestAccuracy(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.0, Accuracy(0, 0))
	assert.Equal(t, 66.7, Accuracy(2, 3))
	assert.Equal(t, 33.3, Accuracy(1, 3))
	assert.Equal(t, 100.0, Accuracy(4, 4))
	assert.Equal(t, 14.3, Accuracy(1, 7))
}

func TestStatsDeduplicatesButSumsTime(t *testing.T) {
	t.Parallel()

	q := uuid.New()
	attempts := []domain.AttemptRecord{
		attempt(q, base, false, 30, 1),
		attempt(q, base.Add(10*time.Minute), true, 15, 2),
	}

	got := Stats(attempts, nil)

	assert.Equal(t, 1, got.TotalAttempted)
	assert.Equal(t, 1, got.TotalCorrect)
	assert.Equal(t, 0, got.TotalIncorrect)
	assert.Equal(t, 100.0, got.Accuracy)
	assert.Equal(t, 45, got.TotalTimeSpentSeconds)
	assert.Equal(t, 45.0, got.AverageTimePerQuestion, "time sums over every attempt")
}

func TestStatsCategories(t *testing.T) {
	t.Parallel()

	algebra1, algebra2, geometry, unknown := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	categories := CategoryMap{
		algebra1: "Algebra",
		algebra2: "Algebra",
		geometry: "Geometry",
	}
	attempts := []domain.AttemptRecord{
		attempt(algebra1, base, true, 10, 1),
		attempt(algebra2, base, false, 20, 1),
		attempt(geometry, base, true, 30, 1),
		attempt(unknown, base, false, 7, 1),
	}

	got := Stats(attempts, categories)

	assert.Equal(t, 4, got.TotalAttempted)
	assert.Equal(t, 2, got.TotalCorrect)
	assert.Equal(t, 50.0, got.Accuracy)
	assert.Equal(t, 16.8, got.AverageTimePerQuestion) // 67 / 4 = 16.75

	assert.Equal(t, []domain.CategoryStat{
		{Category: "Algebra", Attempted: 2, Correct: 1, Incorrect: 1, Accuracy: 50},
		{Category: "Geometry", Attempted: 1, Correct: 1, Incorrect: 0, Accuracy: 100},
		{Category: domain.UncategorizedCategory, Attempted: 1, Correct: 0, Incorrect: 1, Accuracy: 0},
	}, got.CategoryStats)
}

func TestStatsEmpty(t *testing.T) {
	t.Parallel()

	got := Stats(nil, nil)
	assert.Zero(t, got.TotalAttempted)
	assert.Zero(t, got.Accuracy)
	assert.Zero(t, got.AverageTimePerQuestion)
	assert.NotNil(t, got.CategoryStats)
	assert.Empty(t, got.CategoryStats)
}

func TestTrendSingleDay(t *testing.T) {
	t.Parallel()

	attempts := []domain.AttemptRecord{
		attempt(uuid.New(), base, true, 5, 1),
		attempt(uuid.New(), base.Add(time.Hour), true, 5, 1),
		attempt(uuid.New(), base.Add(2*time.Hour), false, 5, 1),
	}

	got := Trend(attempts, TrendOptions{WindowDays: 7})

	require.Len(t, got, 1)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got[0].Date)
	assert.Equal(t, 66.7, got[0].Accuracy)
	assert.Equal(t, 3, got[0].Attempted)
}

func TestTrendRollingWindow(t *testing.T) {
	t.Parallel()

	day := func(n int) time.Time { return base.AddDate(0, 0, n) }
	attempts := []domain.AttemptRecord{
		attempt(uuid.New(), day(0), true, 1, 1),
		attempt(uuid.New(), day(0), true, 1, 1),
		attempt(uuid.New(), day(3), false, 1, 1),
		attempt(uuid.New(), day(6), false, 1, 1),
		attempt(uuid.New(), day(7), true, 1, 1), // day 0 drops out of the window
	}

	got := Trend(attempts, TrendOptions{})
	require.Len(t, got, 4, "only days with attempts produce points")

	assert.Equal(t, 100.0, got[0].Accuracy) // 2/2
	assert.Equal(t, 2, got[0].Attempted)
	assert.Equal(t, 66.7, got[1].Accuracy) // 2/3
	assert.Equal(t, 50.0, got[2].Accuracy) // 2/4, day 0 still inside [0, 6]
	assert.Equal(t, 33.3, got[3].Accuracy) // 1/3 over days 3, 6, 7
	assert.Equal(t, 1, got[3].Attempted, "attempted counts the day itself")

	for i := 1; i < len(got); i++ {
		assert.True(t, got[i-1].Date.Before(got[i].Date), "ascending dates")
	}
}

func TestTrendDeduplicatesAcrossDays(t *testing.T) {
	t.Parallel()

	q := uuid.New()
	attempts := []domain.AttemptRecord{
		attempt(q, base, false, 1, 1),
		attempt(q, base.AddDate(0, 0, 1), true, 1, 2),
	}

	got := Trend(attempts, TrendOptions{})
	require.Len(t, got, 1, "the earlier attempt is superseded")
	assert.Equal(t, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), got[0].Date)
	assert.Equal(t, 100.0, got[0].Accuracy)
}

func TestTrendHorizon(t *testing.T) {
	t.Parallel()

	var attempts []domain.AttemptRecord
	for i := 0; i < 40; i++ {
		attempts = append(attempts, attempt(uuid.New(), base.AddDate(0, 0, i), i%2 == 0, 1, 1))
	}

	got := Trend(attempts, TrendOptions{HorizonDays: 30})
	require.Len(t, got, 30)
	assert.Equal(t, time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC), got[0].Date)
	assert.Equal(t, time.Date(2024, 4, 9, 0, 0, 0, 0, time.UTC), got[29].Date)

	short := Trend(attempts, TrendOptions{HorizonDays: 5, WindowDays: 1})
	require.Len(t, short, 5)
	assert.Equal(t, 0.0, short[4].Accuracy, "day 39 is odd and incorrect")
}

func TestTrendLocation(t *testing.T) {
	t.Parallel()

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// Two attempts on the same UTC day straddle midnight in Tokyo.
	attempts := []domain.AttemptRecord{
		attempt(uuid.New(), time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), true, 1, 1),
		attempt(uuid.New(), time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC), false, 1, 1),
	}

	assert.Len(t, Trend(attempts, TrendOptions{}), 1)
	assert.Len(t, Trend(attempts, TrendOptions{Location: tokyo}), 2)
}

func TestTrendEmpty(t *testing.T) {
	t.Parallel()
	assert.Empty(t, Trend(nil, TrendOptions{}))
}
