package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/SeeratPeroz/Omran-Kebab/internal/repository"
	"github.com/SeeratPeroz/Omran-Kebab/internal/service"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// respondServiceError maps domain and service errors to HTTP status codes.
// Validation failures carry structured details naming the offending group or
// the missing fields.
func respondServiceError(w http.ResponseWriter, err error) {
	var selErr *service.SelectionError
	if errors.As(err, &selErr) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error: selErr.Error(),
			Code:  string(selErr.Reason),
			Details: map[string]any{
				"group_id":   selErr.GroupID,
				"group_name": selErr.GroupName,
				"min_select": selErr.Min,
				"max_select": selErr.Max,
			},
		})
		return
	}

	var infoErr *service.CustomerInfoError
	if errors.As(err, &infoErr) {
		respondJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:   infoErr.Error(),
			Code:    "missing_required_fields",
			Details: map[string]any{"missing_fields": infoErr.Missing},
		})
		return
	}

	switch {
	case errors.Is(err, repository.ErrProductNotFound):
		respondError(w, http.StatusNotFound, "product_not_found", "product not found")
	case errors.Is(err, repository.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, "order_not_found", "order not found")
	case errors.Is(err, service.ErrProductUnavailable):
		respondError(w, http.StatusConflict, "product_unavailable", "product is not available")
	case errors.Is(err, repository.ErrOrderNotInCart):
		respondError(w, http.StatusConflict, "order_not_in_cart", "order is no longer in cart status")
	case errors.Is(err, service.ErrEmptyOrder):
		respondError(w, http.StatusBadRequest, "empty_order", "order has no lines")
	case errors.Is(err, service.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", "illegal order status transition")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
