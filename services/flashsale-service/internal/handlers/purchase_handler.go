// flashsale-service/internal/handlers/purchase.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cockroachdb/errors"

	"flashsale-system/services/flashsale-service/internal/domain"
	"flashsale-system/services/flashsale-service/internal/service"
)

// userIDHeader carries the already-authenticated caller identity; token
// issuance and verification live in front of this service.
const userIDHeader = "X-User-ID"

type PurchaseHandler struct {
	Admission *service.AdmissionService
	Status    *service.StatusService
}

type purchaseRequest struct {
	ProductID string `json:"productId"`
}

type statusResponse struct {
	Status domain.PurchaseStatus `json:"status"`
}

func (h *PurchaseHandler) HandlePurchase(w http.ResponseWriter, r *http.Request) {
	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	userID := r.Header.Get(userIDHeader)

	status, err := h.Admission.Admit(r.Context(), req.ProductID, userID)
	if err != nil {
		writeAdmissionError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(statusResponse{Status: status})
}

func (h *PurchaseHandler) HandleOrderStatus(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get(userIDHeader)
	if userID == "" {
		http.Error(w, "Missing user identity", http.StatusBadRequest)
		return
	}

	status, err := h.Status.GetStatus(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			http.Error(w, "Order not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusResponse{Status: status})
}

func writeAdmissionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrProgramInactive),
		errors.Is(err, domain.ErrProductMismatch),
		errors.Is(err, domain.ErrOutOfStock):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrQueuePublishFailure):
		http.Error(w, "Purchase could not be queued", http.StatusServiceUnavailable)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
