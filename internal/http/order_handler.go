package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/SeeratPeroz/Omran-Kebab/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OrderAPI is the slice of the order service the HTTP layer drives.
type OrderAPI interface {
	CreateOrder(ctx context.Context) (*domain.Order, error)
	Order(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	OrderByNumber(ctx context.Context, number string) (*domain.Order, error)
	AddLine(ctx context.Context, orderID uuid.UUID, productID int64, quantity int, selection domain.Selection) (*domain.OrderLine, error)
	RemoveProduct(ctx context.Context, orderID uuid.UUID, productID int64) error
	SetCustomerInfo(ctx context.Context, orderID uuid.UUID, info domain.CustomerInfo) error
	PlaceCashOrder(ctx context.Context, orderID uuid.UUID, info domain.CustomerInfo) (string, error)
	MarkOrderPaid(ctx context.Context, orderID uuid.UUID, paymentRef string) error
	CheckoutLines(ctx context.Context, orderID uuid.UUID) ([]domain.CheckoutLine, error)
}

type OrderHandler struct {
	orders  OrderAPI
	timeout time.Duration
}

func NewOrderHandler(orders OrderAPI, timeout time.Duration) *OrderHandler {
	return &OrderHandler{
		orders:  orders,
		timeout: timeout,
	}
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	order, err := h.orders.CreateOrder(ctx)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toOrderDTO(order))
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := orderIDFromURL(w, r)
	if !ok {
		return
	}

	order, err := h.orders.Order(ctx, orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

func (h *OrderHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := orderIDFromURL(w, r)
	if !ok {
		return
	}

	var req AddLineRequestDTO
	req.Quantity = 1
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	selection, err := req.Selection()
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_selection_key", "selection keys must be group ids")
		return
	}

	line, err := h.orders.AddLine(ctx, orderID, req.ProductID, int(req.Quantity), selection)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, toLineDTO(*line))
}

func (h *OrderHandler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := orderIDFromURL(w, r)
	if !ok {
		return
	}

	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	if err := h.orders.RemoveProduct(ctx, orderID, productID); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) SetCustomerInfo(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := orderIDFromURL(w, r)
	if !ok {
		return
	}

	var req CustomerInfoRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if err := h.orders.SetCustomerInfo(ctx, orderID, req.Info()); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *OrderHandler) PlaceCashOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := orderIDFromURL(w, r)
	if !ok {
		return
	}

	var req CustomerInfoRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	number, err := h.orders.PlaceCashOrder(ctx, orderID, req.Info())
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"order_number": number})
}

func (h *OrderHandler) CheckoutLines(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	orderID, ok := orderIDFromURL(w, r)
	if !ok {
		return
	}

	lines, err := h.orders.CheckoutLines(ctx, orderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	dtos := make([]CheckoutLineDTO, 0, len(lines))
	for _, l := range lines {
		dtos = append(dtos, CheckoutLineDTO{
			Name:       l.Name,
			UnitAmount: l.UnitAmountMinor,
			Currency:   l.Currency,
			Quantity:   l.Quantity,
		})
	}
	respondJSON(w, http.StatusOK, dtos)
}

func (h *OrderHandler) TrackOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	number := chi.URLParam(r, "order_number")
	if number == "" {
		respondError(w, http.StatusBadRequest, "invalid_order_number", "order_number is required")
		return
	}

	order, err := h.orders.OrderByNumber(ctx, number)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toOrderDTO(order))
}

func orderIDFromURL(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	orderID, err := uuid.Parse(chi.URLParam(r, "order_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return uuid.Nil, false
	}
	return orderID, true
}
