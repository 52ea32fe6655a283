package api

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
)

// AnswerList is a selected answer. Clients may send a single string or an
// array of strings; both decode to a slice.
type AnswerList []string

// UnmarshalJSON implements json.Unmarshaler.
func (a *AnswerList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*a = AnswerList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return errors.New("selected_answer must be a string or an array of strings")
	}
	*a = many
	return nil
}

// RecordAttemptRequest is the payload for POST /api/attempts.
type RecordAttemptRequest struct {
	QuestionID       uuid.UUID  `json:"question_id"        validate:"required"`
	SelectedAnswer   AnswerList `json:"selected_answer"    validate:"required,min=1"`
	IsCorrect        *bool      `json:"is_correct"         validate:"required"`
	TimeSpentSeconds int        `json:"time_spent_seconds" validate:"gte=0"`
}

// SubmitReviewRequest is the payload for POST /api/reviews/{questionID}.
type SubmitReviewRequest struct {
	Quality *int `json:"quality" validate:"required,min=0,max=5"`
}

// PostponeReviewRequest is the payload for POST /api/reviews/{questionID}/postpone.
type PostponeReviewRequest struct {
	Days int `json:"days" validate:"required,min=1,max=3650"`
}

// CreateSessionRequest is the payload for POST /api/sessions.
type CreateSessionRequest struct {
	Mode        string      `json:"mode"         validate:"required,oneof=recommended timed custom wellness"`
	QuestionIDs []uuid.UUID `json:"question_ids" validate:"required,min=1"`
}

// AdvanceSessionRequest is the payload for POST /api/sessions/{id}/advance.
type AdvanceSessionRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

// ScheduleResponse is a review schedule as returned to clients.
type ScheduleResponse struct {
	QuestionID     uuid.UUID `json:"question_id"`
	EasinessFactor float64   `json:"easiness_factor"`
	Interval       int       `json:"interval"`
	Repetitions    int       `json:"repetitions"`
	NextReviewDate time.Time `json:"next_review_date"`
	LastReviewDate time.Time `json:"last_review_date"`
	LastQuality    int       `json:"last_quality"`
}

// SessionResponse is a practice session with its derived progress.
type SessionResponse struct {
	*domain.PracticeSession
	Progress domain.SessionProgress `json:"progress"`
}

func scheduleToResponse(s *domain.ReviewSchedule) ScheduleResponse {
	return ScheduleResponse{
		QuestionID:     s.QuestionID,
		EasinessFactor: s.EasinessFactor,
		Interval:       s.Interval,
		Repetitions:    s.Repetitions,
		NextReviewDate: s.NextReviewDate,
		LastReviewDate: s.LastReviewDate,
		LastQuality:    s.LastQuality,
	}
}

func sessionToResponse(s *domain.PracticeSession) SessionResponse {
	return SessionResponse{PracticeSession: s, Progress: s.Progress()}
}
