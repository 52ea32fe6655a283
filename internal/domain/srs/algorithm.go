package srs

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
)

// calculateNewEaseFactor applies the SM-2 ease update
//
//	ef' = ef + (0.1 - (5-q)*(0.08 + (5-q)*0.02))
//
// clamped to params.MinEaseFactor. A perfect recall adds 0.1, a quality of 4
// leaves ef unchanged and every lower quality shrinks it.
func calculateNewEaseFactor(currentEF float64, quality int, params *Params) float64 {
	d := float64(domain.MaxQuality - quality)
	newEF := currentEF + (0.1 - d*(0.08+d*0.02))

	if newEF < params.MinEaseFactor {
		newEF = params.MinEaseFactor
	}
	return newEF
}

// calculateNewInterval returns the interval in days for the given repetition
// count. repetitions is the count after the current review has been applied.
func calculateNewInterval(repetitions, previousInterval int, easeFactor float64, params *Params) int {
	switch {
	case repetitions <= 1:
		return params.FirstInterval
	case repetitions == 2:
		return params.SecondInterval
	}

	interval := int(math.Round(float64(previousInterval) * easeFactor))
	if interval < 1 {
		interval = 1
	}
	return interval
}

// calculateFirstSchedule models a question's first-ever review.
func calculateFirstSchedule(
	userID, questionID uuid.UUID,
	quality int,
	now time.Time,
	params *Params,
) *domain.ReviewSchedule {
	repetitions := 1
	if quality < params.PassingQuality {
		repetitions = 0
	}

	return &domain.ReviewSchedule{
		UserID:         userID,
		QuestionID:     questionID,
		EasinessFactor: params.InitialEaseFactor,
		Interval:       params.FirstInterval,
		Repetitions:    repetitions,
		LastReviewDate: now,
		NextReviewDate: now.AddDate(0, 0, params.FirstInterval),
		LastQuality:    quality,
	}
}

// calculateNextSchedule creates a new schedule from an existing one. The
// input is copied and never modified.
func calculateNextSchedule(
	existing *domain.ReviewSchedule,
	quality int,
	now time.Time,
	params *Params,
) *domain.ReviewSchedule {
	next := *existing

	next.EasinessFactor = calculateNewEaseFactor(existing.EasinessFactor, quality, params)

	if quality < params.PassingQuality {
		next.Repetitions = 0
		next.Interval = params.FirstInterval
	} else {
		next.Repetitions = existing.Repetitions + 1
		next.Interval = calculateNewInterval(next.Repetitions, existing.Interval, next.EasinessFactor, params)
	}

	next.LastQuality = quality
	next.LastReviewDate = now
	next.NextReviewDate = now.AddDate(0, 0, next.Interval)

	return &next
}
