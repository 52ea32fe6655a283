package progress

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
)

// LatestAttempts reduces attempts to one record per question: the one with the
// latest AttemptedAt, ties broken by the higher AttemptNumber. The result is
// ordered by AttemptedAt ascending and shares no memory with the input slice.
func LatestAttempts(attempts []domain.AttemptRecord) []domain.AttemptRecord {
	latest := make(map[uuid.UUID]int, len(attempts))
	for i := range attempts {
		a := &attempts[i]
		j, ok := latest[a.QuestionID]
		if !ok || newer(a, &attempts[j]) {
			latest[a.QuestionID] = i
		}
	}

	out := make([]domain.AttemptRecord, 0, len(latest))
	for _, i := range latest {
		out = append(out, attempts[i])
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AttemptedAt.Equal(out[j].AttemptedAt) {
			return out[i].AttemptedAt.Before(out[j].AttemptedAt)
		}
		return out[i].QuestionID.String() < out[j].QuestionID.String()
	})
	return out
}

// newer reports whether a supersedes b. Equal records keep b, so the first
// occurrence in the input wins a full tie.
func newer(a, b *domain.AttemptRecord) bool {
	if !a.AttemptedAt.Equal(b.AttemptedAt) {
		return a.AttemptedAt.After(b.AttemptedAt)
	}
	return a.AttemptNumber > b.AttemptNumber
}

// FilterSince keeps attempts made at or after since.
func FilterSince(attempts []domain.AttemptRecord, since time.Time) []domain.AttemptRecord {
	out := make([]domain.AttemptRecord, 0, len(attempts))
	for _, a := range attempts {
		if !a.AttemptedAt.Before(since) {
			out = append(out, a)
		}
	}
	return out
}

// FilterQuestions keeps attempts on the given questions.
func FilterQuestions(attempts []domain.AttemptRecord, questionIDs []uuid.UUID) []domain.AttemptRecord {
	keep := make(map[uuid.UUID]struct{}, len(questionIDs))
	for _, id := range questionIDs {
		keep[id] = struct{}{}
	}

	out := make([]domain.AttemptRecord, 0, len(attempts))
	for _, a := range attempts {
		if _, ok := keep[a.QuestionID]; ok {
			out = append(out, a)
		}
	}
	return out
}
