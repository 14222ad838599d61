// flashsale-service/internal/service/admission.go
package service

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"

	"flashsale-system/services/flashsale-service/internal/catalog"
	"flashsale-system/services/flashsale-service/internal/domain"
)

// AdmissionService decides, under concurrency, whether a purchase attempt may
// reserve one of the remaining units. A reservation is handed to the
// fulfillment queue and the caller gets a pending status immediately; the
// completed order materializes asynchronously.
type AdmissionService struct {
	catalog   *catalog.Provider
	ledger    domain.StockLedger
	publisher domain.IntentPublisher
	topic     string
	log       *slog.Logger
}

func NewAdmissionService(
	cat *catalog.Provider,
	ledger domain.StockLedger,
	publisher domain.IntentPublisher,
	topic string,
	log *slog.Logger,
) *AdmissionService {
	return &AdmissionService{
		catalog:   cat,
		ledger:    ledger,
		publisher: publisher,
		topic:     topic,
		log:       log,
	}
}

// Admit validates the sale window and product identity, reserves one unit via
// an atomic decrement, and publishes the purchase intent. The pre-read of the
// counter is only a fast-path short-circuit; the authoritative oversell check
// is the sign of the decrement result, so a racing decrement that lands below
// zero is compensated with an increment and rejected.
func (s *AdmissionService) Admit(ctx context.Context, productID, userID string) (domain.PurchaseStatus, error) {
	if !s.catalog.Active() {
		return "", domain.ErrProgramInactive
	}
	if productID != s.catalog.Product().ID {
		return "", domain.ErrProductMismatch
	}

	remaining, err := s.ledger.Remaining(ctx, productID)
	if err != nil {
		return "", err
	}
	if remaining <= 0 {
		return "", domain.ErrOutOfStock
	}

	left, err := s.ledger.Decrement(ctx, productID)
	if err != nil {
		return "", err
	}
	if left < 0 {
		if _, ierr := s.ledger.Increment(ctx, productID); ierr != nil {
			// The counter is stuck negative until an operator fixes it;
			// admission keeps rejecting, so no oversell follows.
			s.log.Error("failed to compensate negative stock counter",
				"product_id", productID, "error", ierr)
		}
		return "", domain.ErrOutOfStock
	}

	s.log.Info("stock reserved", "product_id", productID, "remaining", left)

	intent := domain.PurchaseIntent{ProductID: productID, UserID: userID}
	if err := s.publisher.Publish(s.topic, intent); err != nil {
		// The reserved unit is not returned on publish failure. An increment
		// here could oversell if the publish actually reached the broker, so
		// the unit is deliberately leaked and the failure made loud.
		s.log.Error("purchase intent publish failed, reserved unit leaked",
			"product_id", productID, "user_id", userID, "error", err)
		return "", errors.Mark(err, domain.ErrQueuePublishFailure)
	}

	return domain.StatusPending, nil
}
