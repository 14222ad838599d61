package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"flashsale-system/services/flashsale-service/internal/domain"
)

// CachedOrderRepository fronts the primary repository with a Redis cache on
// the status-poll read path. Clients poll for their completed order far more
// often than orders are written, so completed lookups are worth caching;
// misses (still-pending users) always hit the primary.
type CachedOrderRepository struct {
	primaryRepo domain.OrderRepository
	redisClient *redis.Client
	ttl         time.Duration
}

func NewCachedOrderRepository(
	primary domain.OrderRepository,
	redisClient *redis.Client,
	cacheTTL time.Duration,
) *CachedOrderRepository {
	return &CachedOrderRepository{
		primaryRepo: primary,
		redisClient: redisClient,
		ttl:         cacheTTL,
	}
}

func cacheKey(userID string) string {
	return "order:completed:" + userID
}

func (r *CachedOrderRepository) FindCompletedByUser(ctx context.Context, userID string) (*domain.Order, error) {
	// Try cache first
	cached, err := r.redisClient.Get(ctx, cacheKey(userID)).Bytes()
	if err == nil {
		var order domain.Order
		if err := json.Unmarshal(cached, &order); err == nil {
			return &order, nil
		}
	}

	// Fallback to primary repository
	order, err := r.primaryRepo.FindCompletedByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if order != nil {
		data, _ := json.Marshal(order)
		r.redisClient.Set(ctx, cacheKey(userID), data, r.ttl)
	}

	return order, nil
}

// Create delegates to the primary and drops any stale cache entry for the
// user so the next poll observes the write.
func (r *CachedOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	defer r.redisClient.Del(ctx, cacheKey(order.UserID))
	return r.primaryRepo.Create(ctx, order)
}
