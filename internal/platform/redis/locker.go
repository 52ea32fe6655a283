// Package redis provides a distributed per-key lock on Redis, used to
// serialize writes per (user, question) pair across server instances.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avast/retry-go"
	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/scry-progress/internal/config"
	"github.com/phrazzld/scry-progress/internal/domain"
)

// ErrLockHeld is returned when the key stays locked for every acquire attempt.
var ErrLockHeld = fmt.Errorf("%w: lock held by another writer", domain.ErrDependencyUnavailable)

const keyPrefix = "scry:lock:"

// releaseScript deletes the key only if it still carries our token, so an
// expired lock taken over by another writer is never released by us.
var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker is a SET NX PX lock with token-checked release.
type Locker struct {
	client       goredis.UniversalClient
	logger       *slog.Logger
	ttl          time.Duration
	retryDelay   time.Duration
	acquireTries uint
}

// NewLocker wraps an existing client. ttl bounds how long a crashed holder
// keeps the key; it defaults to 5s. The lock is never renewed while held: a
// holder still working when the TTL lapses loses exclusivity and a second
// writer may enter. Lock therefore stretches the TTL to the caller's context
// deadline when that is later, so set ttl above the slowest write for callers
// without a deadline.
func NewLocker(client goredis.UniversalClient, ttl time.Duration, logger *slog.Logger) *Locker {
	if client == nil {
		panic("redis client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 5 * time.Second
	}

	return &Locker{
		client:       client,
		logger:       logger.With(slog.String("component", "redis_locker")),
		ttl:          ttl,
		retryDelay:   10 * time.Millisecond,
		acquireTries: 50,
	}
}

// Connect creates a client from cfg and verifies it with a ping.
func Connect(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Lock acquires key, polling until it is free, the attempts run out or ctx
// is done. The returned function releases the lock.
func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := keyPrefix + key
	token := uuid.NewString()
	ttl := lockTTL(ctx, l.ttl)

	err := retry.Do(
		func() error {
			ok, err := l.client.SetNX(ctx, redisKey, token, ttl).Result()
			if err != nil {
				return fmt.Errorf("%w: %v", domain.ErrDependencyUnavailable, err)
			}
			if !ok {
				return ErrLockHeld
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(l.acquireTries),
		retry.Delay(l.retryDelay),
		retry.DelayType(retry.CombineDelay(retry.FixedDelay, retry.RandomDelay)),
		retry.MaxJitter(l.retryDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool { return errors.Is(err, ErrLockHeld) }),
	)
	if err != nil {
		l.logger.Warn("failed to acquire lock",
			slog.String("key", key),
			slog.String("error", err.Error()))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}

	return func() {
		// Release on a fresh context so a cancelled request still frees the key.
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{redisKey}, token).Err(); err != nil {
			l.logger.Warn("failed to release lock; it will expire",
				slog.String("key", key),
				slog.Duration("ttl", ttl),
				slog.String("error", err.Error()))
		}
	}, nil
}

// lockTTL returns base, or the time left until ctx's deadline if that is
// longer, so a request cannot outlive its own lock.
func lockTTL(ctx context.Context, base time.Duration) time.Duration {
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left > base {
			return left
		}
	}
	return base
}
