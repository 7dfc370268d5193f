package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/SeeratPeroz/Omran-Kebab/internal/domain"
	"github.com/go-chi/chi/v5"
)

type CatalogAPI interface {
	ProductConfig(ctx context.Context, productID int64) (*domain.ProductConfig, error)
}

type CatalogHandler struct {
	catalog CatalogAPI
	timeout time.Duration
}

func NewCatalogHandler(catalog CatalogAPI, timeout time.Duration) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		timeout: timeout,
	}
}

// GetProductConfig serves the option groups and resolved rules the menu modal
// needs for one product.
func (h *CatalogHandler) GetProductConfig(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	cfg, err := h.catalog.ProductConfig(ctx, productID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toProductConfigDTO(cfg))
}
