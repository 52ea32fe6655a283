package progress

import (
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
)

// CategoryLookup resolves a question's topical category.
type CategoryLookup interface {
	Category(questionID uuid.UUID) (string, bool)
}

// CategoryMap is a CategoryLookup backed by a prefetched map. Missing and
// empty entries are reported as absent.
type CategoryMap map[uuid.UUID]string

// Category implements CategoryLookup.
func (m CategoryMap) Category(questionID uuid.UUID) (string, bool) {
	c, ok := m[questionID]
	return c, ok && c != ""
}

// Accuracy returns correct/attempted as a percentage rounded to one decimal,
// or 0 when nothing was attempted.
func Accuracy(correct, attempted int) float64 {
	if attempted <= 0 {
		return 0
	}
	return round1(float64(correct) / float64(attempted) * 100)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Stats aggregates attempts into overall and per-category figures. A nil
// categories lookup places every question in the uncategorized bucket.
func Stats(attempts []domain.AttemptRecord, categories CategoryLookup) domain.Stats {
	latest := LatestAttempts(attempts)

	var totalTime int
	for _, a := range attempts {
		totalTime += a.TimeSpentSeconds
	}

	stats := domain.Stats{
		TotalAttempted:        len(latest),
		TotalTimeSpentSeconds: totalTime,
		CategoryStats:         []domain.CategoryStat{},
	}

	byCategory := make(map[string]*domain.CategoryStat)
	for _, a := range latest {
		name := domain.UncategorizedCategory
		if categories != nil {
			if c, ok := categories.Category(a.QuestionID); ok {
				name = c
			}
		}

		cs, ok := byCategory[name]
		if !ok {
			cs = &domain.CategoryStat{Category: name}
			byCategory[name] = cs
		}
		cs.Attempted++
		if a.IsCorrect {
			cs.Correct++
			stats.TotalCorrect++
		} else {
			cs.Incorrect++
		}
	}

	stats.TotalIncorrect = stats.TotalAttempted - stats.TotalCorrect
	stats.Accuracy = Accuracy(stats.TotalCorrect, stats.TotalAttempted)
	if stats.TotalAttempted > 0 {
		stats.AverageTimePerQuestion = round1(float64(totalTime) / float64(stats.TotalAttempted))
	}

	for _, cs := range byCategory {
		cs.Accuracy = Accuracy(cs.Correct, cs.Attempted)
		stats.CategoryStats = append(stats.CategoryStats, *cs)
	}
	sort.Slice(stats.CategoryStats, func(i, j int) bool {
		return stats.CategoryStats[i].Category < stats.CategoryStats[j].Category
	})

	return stats
}
