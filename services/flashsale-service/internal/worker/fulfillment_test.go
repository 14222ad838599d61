package worker

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"flashsale-system/services/flashsale-service/internal/domain"
)

type fakeLease struct {
	released int
}

func (l *fakeLease) Release(ctx context.Context) error {
	l.released++
	return nil
}

type fakeLocker struct {
	lease    *fakeLease
	err      error
	acquired []string
}

func (f *fakeLocker) Acquire(ctx context.Context, resource string) (domain.Lease, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.acquired = append(f.acquired, resource)
	return f.lease, nil
}

// fakeOrderRepo enforces the (user, item) unique constraint in memory.
type fakeOrderRepo struct {
	orders    map[string]*domain.Order
	createErr error
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[string]*domain.Order{}}
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) error {
	if f.createErr != nil {
		return f.createErr
	}
	key := order.UserID + "|" + order.ItemID
	if _, exists := f.orders[key]; exists {
		return domain.ErrDuplicateOrder
	}
	f.orders[key] = order
	return nil
}

func (f *fakeOrderRepo) FindCompletedByUser(ctx context.Context, userID string) (*domain.Order, error) {
	for _, o := range f.orders {
		if o.UserID == userID && o.Status == domain.StatusCompleted {
			return o, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newWorker(locker domain.Locker, repo domain.OrderRepository) *FulfillmentWorker {
	return NewFulfillmentWorker(locker, repo, 3100, discardLogger())
}

func TestProcessPersistsCompletedOrder(t *testing.T) {
	lease := &fakeLease{}
	locker := &fakeLocker{lease: lease}
	repo := newFakeOrderRepo()
	w := newWorker(locker, repo)

	err := w.Process(context.Background(), domain.PurchaseIntent{ProductID: "10001", UserID: "u1"})

	require.NoError(t, err)
	require.Len(t, repo.orders, 1)

	order := repo.orders["u1|10001"]
	require.NotNil(t, order)
	assert.Equal(t, domain.StatusCompleted, order.Status)
	assert.Equal(t, 1, order.Quantity)
	assert.Equal(t, 3100.0, order.TotalPrice)

	assert.Equal(t, []string{"10001_u1"}, locker.acquired)
	assert.Equal(t, 1, lease.released, "lease released after persistence")
}

func TestProcessSwallowsDuplicateDelivery(t *testing.T) {
	lease := &fakeLease{}
	locker := &fakeLocker{lease: lease}
	repo := newFakeOrderRepo()
	w := newWorker(locker, repo)

	intent := domain.PurchaseIntent{ProductID: "10001", UserID: "u1"}
	require.NoError(t, w.Process(context.Background(), intent))
	require.NoError(t, w.Process(context.Background(), intent), "redelivery must be a no-op, not an error")

	assert.Len(t, repo.orders, 1, "at most one completed order per (user, product)")
	assert.Equal(t, 2, lease.released, "lease released on the duplicate path too")
}

func TestProcessPropagatesLockFailure(t *testing.T) {
	locker := &fakeLocker{err: domain.ErrLockNotAcquired}
	repo := newFakeOrderRepo()
	w := newWorker(locker, repo)

	err := w.Process(context.Background(), domain.PurchaseIntent{ProductID: "10001", UserID: "u1"})

	assert.ErrorIs(t, err, domain.ErrLockNotAcquired)
	assert.Empty(t, repo.orders, "no order may be written without the lock")
}

func TestProcessReleasesLeaseOnPersistenceFailure(t *testing.T) {
	lease := &fakeLease{}
	locker := &fakeLocker{lease: lease}
	repo := newFakeOrderRepo()
	repo.createErr = errors.New("connection reset")
	w := newWorker(locker, repo)

	err := w.Process(context.Background(), domain.PurchaseIntent{ProductID: "10001", UserID: "u1"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDuplicateOrder)
	assert.Equal(t, 1, lease.released, "lease released on the error path")
}

func TestHandleMessageDecodesIntent(t *testing.T) {
	lease := &fakeLease{}
	locker := &fakeLocker{lease: lease}
	repo := newFakeOrderRepo()
	w := newWorker(locker, repo)

	payload, _ := json.Marshal(domain.PurchaseIntent{ProductID: "10001", UserID: "u1"})
	require.NoError(t, w.HandleMessage(context.Background(), payload))
	assert.Len(t, repo.orders, 1)
}

func TestHandleMessageDropsPoisonPayload(t *testing.T) {
	locker := &fakeLocker{lease: &fakeLease{}}
	repo := newFakeOrderRepo()
	w := newWorker(locker, repo)

	err := w.HandleMessage(context.Background(), []byte("{not json"))

	assert.NoError(t, err, "an undecodable payload cannot succeed on redelivery and must be dropped")
	assert.Empty(t, locker.acquired)
}

func TestHandleMessageForwardsAbsentUser(t *testing.T) {
	lease := &fakeLease{}
	locker := &fakeLocker{lease: lease}
	repo := newFakeOrderRepo()
	w := newWorker(locker, repo)

	// userId absent on the wire is accepted; it only matters at the
	// uniqueness layer once a concrete value is required.
	require.NoError(t, w.HandleMessage(context.Background(), []byte(`{"productId":"10001"}`)))
	assert.Equal(t, []string{"10001_"}, locker.acquired)
}
