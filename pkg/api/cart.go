package api

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"storefront/pkg/otel"
	"storefront/pkg/shop"
)

type cartAddRequest struct {
	ItemID   *int `json:"item_id" validate:"required"`
	Quantity *int `json:"quantity" validate:"required,gt=0"`
}

type purchaseResponse struct {
	Message  string        `json:"message,omitempty"`
	Purchase shop.Purchase `json:"purchase"`
}

// addToCartHandler puts units of a catalog item in the cart.
// @Summary Add to cart
// @Accept json
// @Produce json
// @Param entry body cartAddRequest true "Cart entry"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 422 {object} validationResponse
// @Router /cart/add [post]
func (s *Server) addToCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "addToCartHandler")
	defer span.End()

	var req cartAddRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	span.SetAttributes(attribute.Int("item.id", *req.ItemID), attribute.Int("cart.quantity", *req.Quantity))
	if err := s.store.AddToCart(ctx, *req.ItemID, *req.Quantity); err != nil {
		s.writeError(ctx, w, "add to cart", err, "Item not found in store")
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Item added to cart successfully"})
}

// viewCartHandler prices the cart.
// @Summary View cart
// @Produce json
// @Success 200 {object} shop.CartView
// @Router /cart [get]
func (s *Server) viewCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "viewCartHandler")
	defer span.End()

	view, err := s.store.Cart(ctx)
	if err != nil {
		s.writeError(ctx, w, "view cart", err, itemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// removeFromCartHandler takes units of an item out of the cart.
// @Summary Remove from cart
// @Produce json
// @Param id path int true "Item ID"
// @Param quantity query int true "Units to remove"
// @Success 200 {object} messageResponse
// @Failure 400 {object} errorResponse
// @Failure 404 {object} errorResponse
// @Failure 422 {object} validationResponse
// @Router /cart/items/{id} [delete]
func (s *Server) removeFromCartHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "removeFromCartHandler")
	defer span.End()

	id, ok := intParam(w, "path", "id", mux.Vars(r)["id"])
	if !ok {
		return
	}
	qty, ok := intParam(w, "query", "quantity", r.URL.Query().Get("quantity"))
	if !ok {
		return
	}
	if qty <= 0 {
		writeJSON(w, http.StatusUnprocessableEntity, validationResponse{Detail: []fieldError{
			{Loc: []string{"query", "quantity"}, Msg: "Input should be greater than 0", Type: "greater_than"},
		}})
		return
	}
	full, err := s.store.RemoveFromCart(ctx, id, qty)
	if err != nil {
		s.writeError(ctx, w, "remove from cart", err, itemNotFound)
		return
	}
	if full {
		writeJSON(w, http.StatusOK, messageResponse{Message: "Item fully removed from cart successfully"})
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "Item quantity updated in cart successfully"})
}

// finalizeHandler checks out the cart.
// @Summary Finalize cart
// @Produce json
// @Success 200 {object} purchaseResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /cart/finalize [post]
func (s *Server) finalizeHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "finalizeHandler")
	defer span.End()

	p, err := s.store.Finalize(ctx)
	if err != nil {
		s.writeError(ctx, w, "finalize cart", err, itemNotFound)
		return
	}
	span.SetAttributes(attribute.Int("purchase.id", p.ID), attribute.Float64("purchase.total", p.TotalPrice))
	s.log.Info(ctx, "cart finalized", "purchase_id", p.ID, "total_price", p.TotalPrice, "lines", len(p.Items))
	s.recordPurchase(ctx, p)
	writeJSON(w, http.StatusOK, purchaseResponse{Message: "Cart finalized successfully", Purchase: p})
}

// recordPurchase forwards p to the sink. The purchase is already committed,
// so failures are only logged.
func (s *Server) recordPurchase(ctx context.Context, p shop.Purchase) {
	if s.sink == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.sinkTimeout)
	defer cancel()
	if err := s.sink.Record(ctx, p); err != nil {
		s.log.Warn(ctx, "record purchase", "purchase_id", p.ID, "error", err)
	}
}
