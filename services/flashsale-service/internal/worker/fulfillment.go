// flashsale-service/internal/worker/fulfillment.go
package worker

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/cockroachdb/errors"

	"flashsale-system/services/flashsale-service/internal/domain"
)

// FulfillmentWorker converts queued purchase intents into persisted orders,
// exactly once per (user, product) pair. The lease lock serializes concurrent
// deliveries across worker instances; the storage unique constraint is the
// final authority if a lease ever expires mid-flight.
type FulfillmentWorker struct {
	locker    domain.Locker
	orders    domain.OrderRepository
	unitPrice float64
	log       *slog.Logger
}

func NewFulfillmentWorker(locker domain.Locker, orders domain.OrderRepository, unitPrice float64, log *slog.Logger) *FulfillmentWorker {
	return &FulfillmentWorker{
		locker:    locker,
		orders:    orders,
		unitPrice: unitPrice,
		log:       log,
	}
}

// HandleMessage is the queue consumer entry point. A payload that cannot be
// decoded is dropped rather than requeued: redelivery can never fix it, and
// nacking it forever would wedge the consumer on one poison message.
func (w *FulfillmentWorker) HandleMessage(ctx context.Context, payload []byte) error {
	var intent domain.PurchaseIntent
	if err := json.Unmarshal(payload, &intent); err != nil {
		w.log.Error("dropping undecodable purchase intent", "payload", string(payload), "error", err)
		return nil
	}
	return w.Process(ctx, intent)
}

// Process acquires the per-(product, user) lease, persists the completed
// order, and releases the lease on every exit path. A duplicate-key result is
// idempotent success: the order was already fulfilled by an earlier delivery.
// Every other failure propagates so the message is redelivered.
func (w *FulfillmentWorker) Process(ctx context.Context, intent domain.PurchaseIntent) error {
	lease, err := w.locker.Acquire(ctx, intent.ResourceKey())
	if err != nil {
		return errors.Wrapf(err, "acquire fulfillment lock for %s", intent.ResourceKey())
	}
	defer func() {
		// Release must run even when the consumer's context is already
		// canceled, otherwise the lease only frees via TTL expiry.
		if rerr := lease.Release(context.WithoutCancel(ctx)); rerr != nil {
			w.log.Warn("fulfillment lock release failed, lease will expire via TTL",
				"resource", intent.ResourceKey(), "error", rerr)
		}
	}()

	order := &domain.Order{
		UserID:     intent.UserID,
		ItemID:     intent.ProductID,
		Quantity:   1,
		TotalPrice: 1 * w.unitPrice,
		Status:     domain.StatusCompleted,
	}
	if err := w.orders.Create(ctx, order); err != nil {
		if errors.Is(err, domain.ErrDuplicateOrder) {
			w.log.Info("order already fulfilled, swallowing duplicate delivery",
				"product_id", intent.ProductID, "user_id", intent.UserID)
			return nil
		}
		return errors.Wrap(err, "persist order")
	}

	w.log.Info("order fulfilled", "product_id", intent.ProductID, "user_id", intent.UserID)
	return nil
}
