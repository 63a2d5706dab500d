package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"storefront/pkg/otel"
	"storefront/pkg/shop"
)

type purchasesResponse struct {
	Purchases []shop.Purchase `json:"purchases"`
}

// listPurchasesHandler lists purchases oldest first.
// @Summary List purchases
// @Produce json
// @Success 200 {object} purchasesResponse
// @Router /purchases [get]
func (s *Server) listPurchasesHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listPurchasesHandler")
	defer span.End()

	ps, err := s.store.ListPurchases(ctx)
	if err != nil {
		s.writeError(ctx, w, "list purchases", err, itemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, purchasesResponse{Purchases: ps})
}

// getPurchaseHandler retrieves a purchase by ID.
// @Summary Get purchase
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {object} purchaseResponse
// @Failure 404 {object} errorResponse
// @Router /purchases/{id} [get]
func (s *Server) getPurchaseHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getPurchaseHandler")
	defer span.End()

	id, ok := intParam(w, "path", "id", mux.Vars(r)["id"])
	if !ok {
		return
	}
	p, err := s.store.GetPurchase(ctx, id)
	if err != nil {
		s.writeError(ctx, w, "get purchase", err, itemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, purchaseResponse{Purchase: p})
}
