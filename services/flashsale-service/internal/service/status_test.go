package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashsale-system/services/flashsale-service/internal/domain"
)

type fakeOrderRepo struct {
	orders map[string]*domain.Order
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	f.orders[order.UserID] = order
	return nil
}

func (f *fakeOrderRepo) FindCompletedByUser(ctx context.Context, userID string) (*domain.Order, error) {
	order, ok := f.orders[userID]
	if !ok || order.Status != domain.StatusCompleted {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func TestGetStatusBeforeAndAfterFulfillment(t *testing.T) {
	repo := &fakeOrderRepo{orders: map[string]*domain.Order{}}
	svc := NewStatusService(repo)

	// Nothing fulfilled yet: pending and never-attempted both read as not found.
	_, err := svc.GetStatus(context.Background(), "u1")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	require.NoError(t, repo.Create(context.Background(), &domain.Order{
		UserID: "u1",
		ItemID: "10001",
		Status: domain.StatusCompleted,
	}))

	status, err := svc.GetStatus(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, status)
}
