package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/store"
)

// ScheduleStore is an in-memory store.ScheduleStore.
type ScheduleStore struct {
	mu        sync.RWMutex
	schedules map[pairKey]domain.ReviewSchedule
	reviews   map[uuid.UUID][]time.Time
}

var _ store.ScheduleStore = (*ScheduleStore)(nil)

// NewScheduleStore returns an empty ScheduleStore.
func NewScheduleStore() *ScheduleStore {
	return &ScheduleStore{
		schedules: make(map[pairKey]domain.ReviewSchedule),
		reviews:   make(map[uuid.UUID][]time.Time),
	}
}

// Get implements store.ScheduleStore.
func (s *ScheduleStore) Get(_ context.Context, userID, questionID uuid.UUID) (*domain.ReviewSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	schedule, ok := s.schedules[pairKey{userID: userID, questionID: questionID}]
	if !ok {
		return nil, store.ErrScheduleNotFound
	}
	return &schedule, nil
}

// Upsert implements store.ScheduleStore.
func (s *ScheduleStore) Upsert(_ context.Context, schedule *domain.ReviewSchedule) error {
	if err := schedule.Validate(); err != nil {
		return err
	}

	stored := *schedule
	stored.NextReviewDate = stored.NextReviewDate.UTC()
	stored.LastReviewDate = stored.LastReviewDate.UTC()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.schedules[pairKey{userID: schedule.UserID, questionID: schedule.QuestionID}] = stored
	s.reviews[schedule.UserID] = append(s.reviews[schedule.UserID], stored.LastReviewDate)
	return nil
}

// ListDue implements store.ScheduleStore.
func (s *ScheduleStore) ListDue(_ context.Context, userID uuid.UUID, asOf time.Time) ([]*domain.ReviewSchedule, error) {
	s.mu.RLock()
	var due []*domain.ReviewSchedule
	for key, schedule := range s.schedules {
		if key.userID != userID || !schedule.IsDue(asOf) {
			continue
		}
		schedule := schedule
		due = append(due, &schedule)
	}
	s.mu.RUnlock()

	sort.Slice(due, func(i, j int) bool {
		if !due[i].NextReviewDate.Equal(due[j].NextReviewDate) {
			return due[i].NextReviewDate.Before(due[j].NextReviewDate)
		}
		return due[i].QuestionID.String() < due[j].QuestionID.String()
	})
	return due, nil
}

// ReviewDates implements store.ScheduleStore.
func (s *ScheduleStore) ReviewDates(_ context.Context, userID uuid.UUID) ([]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]time.Time(nil), s.reviews[userID]...), nil
}
