// flashsale-service/internal/service/status.go
package service

import (
	"context"

	"flashsale-system/services/flashsale-service/internal/domain"
)

// StatusService is the read path: the final state of a purchase is observed
// by polling for a completed order. An intent still in flight and one that
// was never admitted both read as ErrOrderNotFound.
type StatusService struct {
	orders domain.OrderRepository
}

func NewStatusService(orders domain.OrderRepository) *StatusService {
	return &StatusService{orders: orders}
}

func (s *StatusService) GetStatus(ctx context.Context, userID string) (domain.PurchaseStatus, error) {
	order, err := s.orders.FindCompletedByUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return order.Status, nil
}
