package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"storefront/pkg/shop"
)

type errorResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// httpError maps a store error to a status and response detail.
// itemNotFound lets each endpoint word a missing catalog item its own way.
func httpError(err error, itemNotFound string) (int, string) {
	switch {
	case errors.Is(err, shop.ErrItemNotFound):
		return http.StatusNotFound, itemNotFound
	case errors.Is(err, shop.ErrNotInCart):
		return http.StatusNotFound, "Item not in cart"
	case errors.Is(err, shop.ErrPurchaseNotFound):
		return http.StatusNotFound, "Purchase not found"
	case errors.Is(err, shop.ErrInsufficientStock):
		return http.StatusBadRequest, "Insufficient stock"
	case errors.Is(err, shop.ErrOverRemoval):
		return http.StatusBadRequest, "Cannot remove more items than are in the cart"
	case errors.Is(err, shop.ErrCartEmpty):
		return http.StatusBadRequest, "Cart is empty"
	case errors.Is(err, shop.ErrInconsistent):
		return http.StatusInternalServerError, "Cart inconsistency: " + err.Error()
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, op string, err error, itemNotFound string) {
	status, detail := httpError(err, itemNotFound)
	if status >= http.StatusInternalServerError {
		s.log.Error(ctx, op, "error", err)
	}
	writeJSON(w, status, errorResponse{Detail: detail})
}
