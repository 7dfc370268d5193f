package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// PaymentHandler receives confirmation callbacks from the payment
// collaborator. Delivery is at-least-once, so replays and unknown orders must
// be accepted without failing.
type PaymentHandler struct {
	orders  OrderAPI
	timeout time.Duration
}

func NewPaymentHandler(orders OrderAPI, timeout time.Duration) *PaymentHandler {
	return &PaymentHandler{
		orders:  orders,
		timeout: timeout,
	}
}

func (h *PaymentHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var req PaymentConfirmationDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "order_id must be a UUID")
		return
	}
	if req.Status != "paid" {
		// Acknowledged but nothing to do; only confirmed payments place orders.
		w.WriteHeader(http.StatusAccepted)
		return
	}

	if err := h.orders.MarkOrderPaid(ctx, orderID, req.PaymentRef); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
