package lockRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// ErrLockNotAcquired indicates the resource lock was held by another
// request for the whole wait budget.
var ErrLockNotAcquired = errors.New("resource lock not acquired")

// ResourceLocker provides a resource-scoped advisory lock. It is the
// mutual exclusion boundary around every check-and-write on a
// resource's calendar.
type ResourceLocker interface {
	// Acquire blocks up to the configured wait budget for the lock on
	// resourceID and returns a release function.
	Acquire(ctx context.Context, resourceID string) (release func(), err error)
}

// RedisResourceLocker implements ResourceLocker with SET NX + TTL.
// Release is token-checked so an expired lease cannot release a lock
// re-acquired by another request.
type RedisResourceLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
}

// NewRedisResourceLocker constructs a locker. ttl bounds how long a
// crashed holder can block a resource; wait bounds acquisition.
func NewRedisResourceLocker(client *redis.Client, ttl, wait time.Duration) *RedisResourceLocker {
	return &RedisResourceLocker{client: client, ttl: ttl, wait: wait}
}

const releaseScript = `
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0`

func (l *RedisResourceLocker) Acquire(ctx context.Context, resourceID string) (func(), error) {
	key := lockKey(resourceID)
	token := uuid.New().String()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock for resource %s: %w", resourceID, err)
		}
		if ok {
			release := func() {
				relCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				l.client.Eval(relCtx, releaseScript, []string{key}, token)
			}
			return release, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(50 * time.Millisecond):
		}
	}
}

func lockKey(resourceID string) string {
	return "booking:lock:" + resourceID
}
