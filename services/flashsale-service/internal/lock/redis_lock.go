// flashsale-service/internal/lock/redis_lock.go
package lock

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"flashsale-system/services/flashsale-service/internal/domain"
)

const keyPrefix = "lock:"

// releaseScript deletes the lock key only when it still holds our token, so a
// release after lease expiry (and possible re-acquisition by another worker)
// is a no-op instead of stealing someone else's lease.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker grants lease-based locks backed by SET NX PX. The TTL bounds
// worst-case staleness when a holder crashes without releasing.
type RedisLocker struct {
	client         *redis.Client
	ttl            time.Duration
	acquireTimeout time.Duration
	retryInterval  time.Duration
	log            *slog.Logger
}

func NewRedisLocker(client *redis.Client, ttl, acquireTimeout, retryInterval time.Duration, log *slog.Logger) *RedisLocker {
	return &RedisLocker{
		client:         client,
		ttl:            ttl,
		acquireTimeout: acquireTimeout,
		retryInterval:  retryInterval,
		log:            log,
	}
}

// Acquire retries SET NX until the lease is granted or the bounded wait runs
// out. Contention and broker failure both surface as ErrLockNotAcquired so the
// caller can requeue the message rather than hang a consumer.
func (l *RedisLocker) Acquire(ctx context.Context, resource string) (domain.Lease, error) {
	key := keyPrefix + resource
	token := uuid.New().String()

	ctx, cancel := context.WithTimeout(ctx, l.acquireTimeout)
	defer cancel()

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, errors.Mark(errors.Wrap(err, "lock set"), domain.ErrLockNotAcquired)
		}
		if ok {
			return &lease{client: l.client, key: key, token: token}, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Mark(errors.Wrapf(ctx.Err(), "lock %s contended", key), domain.ErrLockNotAcquired)
		case <-time.After(l.retryInterval):
		}
	}
}

type lease struct {
	client *redis.Client
	key    string
	token  string
}

func (le *lease) Release(ctx context.Context) error {
	if err := releaseScript.Run(ctx, le.client, []string{le.key}, le.token).Err(); err != nil {
		return errors.Wrap(err, "lock release")
	}
	return nil
}
