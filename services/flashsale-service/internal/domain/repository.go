package domain

import "context"

// OrderRepository persists fulfilled orders. Create returns ErrDuplicateOrder
// when an order for the same (user, item) already exists; FindCompletedByUser
// returns ErrOrderNotFound when the user has no completed order.
type OrderRepository interface {
	Create(ctx context.Context, order *Order) error
	FindCompletedByUser(ctx context.Context, userID string) (*Order, error)
}

// StockLedger is the atomic remaining-stock counter shared by every admission
// caller, across processes. Decrement and Increment return the post-operation
// value; the sign of the decrement result is the authoritative oversell check.
type StockLedger interface {
	Seed(ctx context.Context, productID string, units int64) error
	Remaining(ctx context.Context, productID string) (int64, error)
	Decrement(ctx context.Context, productID string) (int64, error)
	Increment(ctx context.Context, productID string) (int64, error)
}

// Locker grants lease-based mutual exclusion across fulfillment workers.
// Acquire blocks with a bounded wait and returns ErrLockNotAcquired when the
// resource stays contended, so callers can tell lock contention apart from
// failure of the protected work.
type Locker interface {
	Acquire(ctx context.Context, resource string) (Lease, error)
}

// Lease is a held lock grant. Release is a no-op when the lease has already
// expired or was taken over by another holder.
type Lease interface {
	Release(ctx context.Context) error
}

// IntentPublisher hands an admitted purchase intent to the fulfillment queue.
// The publish is durable: a nil return means the broker has accepted the
// message onto stable storage.
type IntentPublisher interface {
	Publish(topic string, message any) error
}
