// flashsale-service/internal/ledger/redis_ledger.go
package ledger

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// RedisLedger keeps the remaining-stock counter in Redis. DECR/INCR are atomic
// across every caller in every process, which is what makes the sign of the
// decrement result a safe oversell check.
type RedisLedger struct {
	client *redis.Client
}

func NewRedisLedger(client *redis.Client) *RedisLedger {
	return &RedisLedger{client: client}
}

func stockKey(productID string) string {
	return "product:" + productID + ":stock"
}

// Seed initializes the counter once. A counter that survived a previous run
// is left untouched so a restart never resets stock mid-sale.
func (l *RedisLedger) Seed(ctx context.Context, productID string, units int64) error {
	// SetNX leaves an existing counter alone and reports false, which is
	// not an error here.
	if err := l.client.SetNX(ctx, stockKey(productID), units, 0).Err(); err != nil {
		return errors.Wrap(err, "seed stock counter")
	}
	return nil
}

// Remaining reads the current counter value. A missing key reads as zero.
func (l *RedisLedger) Remaining(ctx context.Context, productID string) (int64, error) {
	n, err := l.client.Get(ctx, stockKey(productID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "read stock counter")
	}
	return n, nil
}

func (l *RedisLedger) Decrement(ctx context.Context, productID string) (int64, error) {
	n, err := l.client.Decr(ctx, stockKey(productID)).Result()
	if err != nil {
		return 0, errors.Wrap(err, "decrement stock counter")
	}
	return n, nil
}

func (l *RedisLedger) Increment(ctx context.Context, productID string) (int64, error) {
	n, err := l.client.Incr(ctx, stockKey(productID)).Result()
	if err != nil {
		return 0, errors.Wrap(err, "increment stock counter")
	}
	return n, nil
}
