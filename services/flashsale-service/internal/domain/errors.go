package domain

import "github.com/cockroachdb/errors"

// Client-facing rejections. Retrying the same request will not change the
// outcome until stock or the sale window changes.
var (
	ErrProgramInactive = errors.New("flash sale program is inactive")
	ErrProductMismatch = errors.New("product id does not match the sale product")
	ErrOutOfStock      = errors.New("product is out of stock")
	ErrOrderNotFound   = errors.New("order not found")
)

// Operational failures. These may succeed on retry and drive the
// requeue decision on the consumer side.
var (
	ErrLockNotAcquired     = errors.New("fulfillment lock not acquired")
	ErrQueuePublishFailure = errors.New("failed to publish purchase intent")
)

// ErrDuplicateOrder marks the storage-layer unique violation on
// (user_id, item_id). The fulfillment worker swallows it as idempotent
// success rather than treating it as a failure.
var ErrDuplicateOrder = errors.New("order already exists for user and item")
