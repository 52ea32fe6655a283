package service

import (
	"context"

	"github.com/google/uuid"
)

// PairLocker serializes writes to one (user, question) pair. Lock blocks
// until the key is free or ctx is done and returns the release function.
type PairLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

func pairKey(userID, questionID uuid.UUID) string {
	return userID.String() + ":" + questionID.String()
}

// lockPair acquires the pair lock, wrapping a locker failure as a dependency
// error.
func lockPair(ctx context.Context, locker PairLocker, operation string, userID, questionID uuid.UUID) (func(), error) {
	unlock, err := locker.Lock(ctx, pairKey(userID, questionID))
	if err != nil {
		return nil, wrapError(operation, "failed to lock question", err)
	}
	return unlock, nil
}
