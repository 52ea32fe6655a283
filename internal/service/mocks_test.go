package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/store"
	"github.com/stretchr/testify/mock"
)

type mockAttemptStore struct {
	mock.Mock
}

func (m *mockAttemptStore) Append(ctx context.Context, attempt *domain.AttemptRecord) (*domain.AttemptRecord, error) {
	args := m.Called(ctx, attempt)
	if rec, ok := args.Get(0).(*domain.AttemptRecord); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockAttemptStore) Query(ctx context.Context, userID uuid.UUID, questionIDs ...uuid.UUID) ([]domain.AttemptRecord, error) {
	args := m.Called(ctx, userID, questionIDs)
	if recs, ok := args.Get(0).([]domain.AttemptRecord); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockScheduleStore struct {
	mock.Mock
}

func (m *mockScheduleStore) Get(ctx context.Context, userID, questionID uuid.UUID) (*domain.ReviewSchedule, error) {
	args := m.Called(ctx, userID, questionID)
	if s, ok := args.Get(0).(*domain.ReviewSchedule); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduleStore) Upsert(ctx context.Context, schedule *domain.ReviewSchedule) error {
	return m.Called(ctx, schedule).Error(0)
}

func (m *mockScheduleStore) ListDue(ctx context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.ReviewSchedule, error) {
	args := m.Called(ctx, userID, asOf)
	if s, ok := args.Get(0).([]*domain.ReviewSchedule); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockScheduleStore) ReviewDates(ctx context.Context, userID uuid.UUID) ([]time.Time, error) {
	args := m.Called(ctx, userID)
	if d, ok := args.Get(0).([]time.Time); ok {
		return d, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) Create(ctx context.Context, session *domain.PracticeSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *mockSessionStore) Get(ctx context.Context, sessionID, userID uuid.UUID) (*domain.PracticeSession, error) {
	args := m.Called(ctx, sessionID, userID)
	if s, ok := args.Get(0).(*domain.PracticeSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionStore) Update(
	ctx context.Context,
	sessionID, userID uuid.UUID,
	update store.SessionUpdate,
) (*domain.PracticeSession, error) {
	args := m.Called(ctx, sessionID, userID, update)
	if s, ok := args.Get(0).(*domain.PracticeSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSessionStore) List(ctx context.Context, userID uuid.UUID, filter store.SessionFilter) ([]*domain.PracticeSession, error) {
	args := m.Called(ctx, userID, filter)
	if s, ok := args.Get(0).([]*domain.PracticeSession); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockCatalog struct {
	mock.Mock
}

func (m *mockCatalog) Categories(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	args := m.Called(ctx, questionIDs)
	if c, ok := args.Get(0).(map[uuid.UUID]string); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockLocker struct {
	mock.Mock
}

func (m *mockLocker) Lock(ctx context.Context, key string) (func(), error) {
	args := m.Called(ctx, key)
	if f, ok := args.Get(0).(func()); ok {
		return f, args.Error(1)
	}
	return nil, args.Error(1)
}
