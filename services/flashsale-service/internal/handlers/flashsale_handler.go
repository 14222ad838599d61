package handlers

import (
	"encoding/json"
	"net/http"

	"flashsale-system/services/flashsale-service/internal/catalog"
)

// FlashSaleHandler exposes the read-only program window and catalog views.
type FlashSaleHandler struct {
	Catalog *catalog.Provider
}

func (h *FlashSaleHandler) HandleProgramStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Catalog.Status())
}

func (h *FlashSaleHandler) HandleProduct(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Catalog.Product())
}
