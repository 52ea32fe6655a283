package store

import (
	"errors"
	"testing"

	"github.com/phrazzld/scry-progress/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestEntityErrorsClassify(t *testing.T) {
	t.Parallel()

	for _, err := range []error{ErrSessionNotFound, ErrScheduleNotFound} {
		assert.True(t, IsNotFoundError(err))
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.False(t, IsDuplicateError(err))
	}

	assert.ErrorIs(t, ErrConflict, domain.ErrInvalidState)
	assert.ErrorIs(t, ErrUnavailable, domain.ErrDependencyUnavailable)
	assert.True(t, IsDuplicateError(ErrDuplicate))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewStoreError("attempt", "append", "failed to insert attempt", cause)

	assert.Equal(t, "append operation on attempt failed: failed to insert attempt: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	var storeErr *StoreError
	assert.True(t, errors.As(error(err), &storeErr))
	assert.Equal(t, "attempt", storeErr.Entity)

	bare := NewStoreError("session", "get", "not found", nil)
	assert.Equal(t, "get operation on session failed: not found", bare.Error())
}
