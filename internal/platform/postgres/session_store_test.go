package postgres

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionCols = []string{
	"id", "user_id", "mode", "question_ids", "started_at", "completed_at",
	"status", "current_question_index", "results",
}

func sessionRow(t *testing.T, s *domain.PracticeSession) *sqlmock.Rows {
	t.Helper()
	ids, err := json.Marshal(s.QuestionIDs)
	require.NoError(t, err)

	var completedAt, results any
	if s.CompletedAt != nil {
		completedAt = *s.CompletedAt
	}
	if s.Results != nil {
		b, err := json.Marshal(s.Results)
		require.NoError(t, err)
		results = b
	}

	return sqlmock.NewRows(sessionCols).AddRow(
		s.ID.String(), s.UserID.String(), string(s.Mode), ids, s.StartedAt,
		completedAt, string(s.Status), s.CurrentQuestionIndex, results,
	)
}

func newDomainSession(t *testing.T) *domain.PracticeSession {
	t.Helper()
	s, err := domain.NewPracticeSession(
		uuid.New(),
		domain.SessionModeTimed,
		[]uuid.UUID{uuid.New(), uuid.New(), uuid.New()},
		time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return s
}

func TestPostgresSessionStore_Create(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresSessionStore(db, discardLogger())
	session := newDomainSession(t)

	ids, _ := json.Marshal(session.QuestionIDs)
	mock.ExpectExec("INSERT INTO practice_sessions").
		WithArgs(session.ID, session.UserID, "timed", string(ids), session.StartedAt,
			nil, "in_progress", 0, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Create(context.Background(), session))
}

func TestPostgresSessionStore_GetRoundTrip(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresSessionStore(db, discardLogger())

	session := newDomainSession(t)
	completed := session.StartedAt.Add(20 * time.Minute)
	session.Status = domain.SessionStatusCompleted
	session.CompletedAt = &completed
	session.CurrentQuestionIndex = 3
	session.Results = &domain.SessionResults{
		Stats:              domain.Stats{TotalAttempted: 3, TotalCorrect: 2, Accuracy: 66.7},
		CompletedQuestions: 3,
		TotalQuestions:     3,
	}

	mock.ExpectQuery("FROM practice_sessions WHERE id = \\$1 AND user_id = \\$2").
		WithArgs(session.ID, session.UserID).
		WillReturnRows(sessionRow(t, session))

	got, err := s.Get(context.Background(), session.ID, session.UserID)
	require.NoError(t, err)
	assert.Equal(t, session.QuestionIDs, got.QuestionIDs)
	assert.Equal(t, domain.SessionStatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, completed, *got.CompletedAt)
	require.NotNil(t, got.Results)
	assert.Equal(t, 66.7, got.Results.Accuracy)
	assert.Equal(t, 3, got.Results.CompletedQuestions)
}

func TestPostgresSessionStore_GetNotFound(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresSessionStore(db, discardLogger())

	mock.ExpectQuery("FROM practice_sessions").WillReturnRows(sqlmock.NewRows(sessionCols))

	_, err := s.Get(context.Background(), uuid.New(), uuid.New())
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestPostgresSessionStore_UpdateLocksRow(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresSessionStore(db, discardLogger())
	session := newDomainSession(t)

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").
		WithArgs(session.ID, session.UserID).
		WillReturnRows(sessionRow(t, session))
	mock.ExpectExec("UPDATE practice_sessions").
		WithArgs(session.ID, session.UserID, "in_progress", 2, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	idx := 2
	got, err := s.Update(context.Background(), session.ID, session.UserID, store.SessionUpdate{
		CurrentQuestionIndex: &idx,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentQuestionIndex)
}

func TestPostgresSessionStore_UpdatePreconditionFails(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresSessionStore(db, discardLogger())

	session := newDomainSession(t)
	session.Status = domain.SessionStatusAbandoned

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sessionRow(t, session))
	mock.ExpectRollback()

	expect := domain.SessionStatusInProgress
	completed := domain.SessionStatusCompleted
	_, err := s.Update(context.Background(), session.ID, session.UserID, store.SessionUpdate{
		ExpectStatus: &expect,
		Status:       &completed,
		Results:      &domain.SessionResults{},
	})
	assert.ErrorIs(t, err, store.ErrConflict)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestPostgresSessionStore_UpdateRejectsBackwardIndex(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresSessionStore(db, discardLogger())

	session := newDomainSession(t)
	session.CurrentQuestionIndex = 3

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sessionRow(t, session))
	mock.ExpectRollback()

	expect := domain.SessionStatusInProgress
	idx := 1
	_, err := s.Update(context.Background(), session.ID, session.UserID, store.SessionUpdate{
		ExpectStatus:         &expect,
		CurrentQuestionIndex: &idx,
	})
	assert.ErrorIs(t, err, domain.ErrQuestionIndexBack)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresSessionStore_UpdateNotFound(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresSessionStore(db, discardLogger())

	mock.ExpectBegin()
	mock.ExpectQuery("FOR UPDATE").WillReturnRows(sqlmock.NewRows(sessionCols))
	mock.ExpectRollback()

	idx := 1
	_, err := s.Update(context.Background(), uuid.New(), uuid.New(), store.SessionUpdate{CurrentQuestionIndex: &idx})
	assert.ErrorIs(t, err, store.ErrSessionNotFound)
}

func TestPostgresSessionStore_ListFilters(t *testing.T) {
	t.Parallel()
	db, mock := newMock(t)
	s := NewPostgresSessionStore(db, discardLogger())
	session := newDomainSession(t)

	mock.ExpectQuery(`WHERE user_id = \$1 AND status = \$2 AND mode = \$3 ORDER BY started_at DESC, id LIMIT \$4`).
		WithArgs(session.UserID, "in_progress", "timed", 5).
		WillReturnRows(sessionRow(t, session))

	got, err := s.List(context.Background(), session.UserID, store.SessionFilter{
		Status: domain.SessionStatusInProgress,
		Mode:   domain.SessionModeTimed,
		Limit:  5,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, session.ID, got[0].ID)

	mock.ExpectQuery(`WHERE user_id = \$1 ORDER BY started_at DESC, id$`).
		WithArgs(session.UserID).
		WillReturnRows(sqlmock.NewRows(sessionCols))

	got, err = s.List(context.Background(), session.UserID, store.SessionFilter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
