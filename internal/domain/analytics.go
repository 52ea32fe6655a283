package domain

import "time"

// UncategorizedCategory collects questions whose category cannot be resolved.
const UncategorizedCategory = "Uncategorized"

// Stats summarizes a learner's attempts. Counts and accuracy use the latest
// attempt per question; time figures use every attempt.
type Stats struct {
	TotalAttempted         int            `json:"total_attempted"`
	TotalCorrect           int            `json:"total_correct"`
	TotalIncorrect         int            `json:"total_incorrect"`
	Accuracy               float64        `json:"accuracy"`
	AverageTimePerQuestion float64        `json:"average_time_per_question"`
	TotalTimeSpentSeconds  int            `json:"total_time_spent_seconds"`
	CategoryStats          []CategoryStat `json:"category_stats"`
}

// CategoryStat is accuracy broken down by a question's topical category.
type CategoryStat struct {
	Category  string  `json:"category"`
	Attempted int     `json:"attempted"`
	Correct   int     `json:"correct"`
	Incorrect int     `json:"incorrect"`
	Accuracy  float64 `json:"accuracy"`
}

// TrendPoint is one calendar day's rolling accuracy snapshot.
type TrendPoint struct {
	Date      time.Time `json:"date"`
	Accuracy  float64   `json:"accuracy"`
	Attempted int       `json:"attempted"`
}

// Streaks holds consecutive-day activity counts.
type Streaks struct {
	Current        int        `json:"current"`
	Longest        int        `json:"longest"`
	LastActiveDate *time.Time `json:"last_active_date,omitempty"`
}
