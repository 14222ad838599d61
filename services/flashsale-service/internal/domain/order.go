// flashsale-service/internal/domain/order.go
package domain

import "time"

type PurchaseStatus string

const (
	StatusPending   PurchaseStatus = "pending"
	StatusCompleted PurchaseStatus = "completed"
	StatusFailed    PurchaseStatus = "failed"
)

// Order is the persisted record of a fulfilled purchase. The sale moves a
// single unit per admission, so Quantity is always 1, and (UserID, ItemID)
// carries a unique constraint at the storage layer.
type Order struct {
	ID         string
	UserID     string
	ItemID     string
	Quantity   int
	TotalPrice float64
	Status     PurchaseStatus
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PurchaseIntent is the queue payload carrying an admitted purchase attempt
// from admission to fulfillment. UserID may be absent on the wire; it is
// forwarded as-is and only becomes mandatory at the persistence layer.
type PurchaseIntent struct {
	ProductID string `json:"productId"`
	UserID    string `json:"userId,omitempty"`
}

// ResourceKey names the fulfillment critical section for this intent. Two
// deliveries for the same (product, user) pair contend on the same key.
func (p PurchaseIntent) ResourceKey() string {
	return p.ProductID + "_" + p.UserID
}
