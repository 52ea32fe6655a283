package service

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/phrazzld/scry-progress/internal/platform/lock"
	"github.com/phrazzld/scry-progress/internal/platform/memory"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fixture wires every service to fresh in-memory stores.
type fixture struct {
	attempts  *memory.AttemptStore
	schedules *memory.ScheduleStore
	sessions  *memory.SessionStore
	catalog   *memory.QuestionCatalog
	locker    *lock.Local
	opts      []Option
}

func newFixture(opts ...Option) *fixture {
	return &fixture{
		attempts:  memory.NewAttemptStore(),
		schedules: memory.NewScheduleStore(),
		sessions:  memory.NewSessionStore(),
		catalog:   memory.NewQuestionCatalog(nil),
		locker:    lock.NewLocal(),
		opts:      append([]Option{WithClock(fixedClock(testNow))}, opts...),
	}
}

func (f *fixture) addAttempt(t *testing.T, userID, questionID uuid.UUID, correct bool, seconds int, at time.Time) {
	t.Helper()
	a, err := domain.NewAttemptRecord(userID, questionID, []string{"a"}, correct, seconds, at)
	require.NoError(t, err)
	_, err = f.attempts.Append(context.Background(), a)
	require.NoError(t, err)
}
