package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"

	"storefront/pkg/otel"
	"storefront/pkg/shop"
)

// itemRequest is the payload of POST /items.
type itemRequest struct {
	Name        *string  `json:"name" validate:"required"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"required,gt=0"`
	Category    *string  `json:"category" validate:"required"`
	Stock       *int     `json:"stock" validate:"required,gte=0"`
}

// itemPatchRequest is the payload of PUT /items/{id}. Omitted fields keep
// their current value.
type itemPatchRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0"`
	Category    *string  `json:"category"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
}

type itemResponse struct {
	Message string    `json:"message,omitempty"`
	Item    shop.Item `json:"item"`
}

type itemsResponse struct {
	Items []shop.Item `json:"items"`
}

type messageResponse struct {
	Message string `json:"message"`
}

const itemNotFound = "Item not found"

// createItemHandler adds an item to the catalog.
// @Summary Add item
// @Accept json
// @Produce json
// @Param item body itemRequest true "Item"
// @Success 200 {object} itemResponse
// @Failure 422 {object} validationResponse
// @Router /items [post]
func (s *Server) createItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "createItemHandler")
	defer span.End()

	var req itemRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	it, err := s.store.AddItem(ctx, shop.NewItem{
		Name:        *req.Name,
		Description: req.Description,
		Price:       *req.Price,
		Category:    *req.Category,
		Stock:       *req.Stock,
	})
	if err != nil {
		s.writeError(ctx, w, "add item", err, itemNotFound)
		return
	}
	span.SetAttributes(attribute.Int("item.id", it.ID))
	s.log.Info(ctx, "item added", "id", it.ID, "name", it.Name)
	writeJSON(w, http.StatusOK, itemResponse{Message: "Item added successfully", Item: it})
}

// listItemsHandler lists the catalog.
// @Summary List items
// @Produce json
// @Success 200 {object} itemsResponse
// @Router /items [get]
func (s *Server) listItemsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "listItemsHandler")
	defer span.End()

	items, err := s.store.ListItems(ctx)
	if err != nil {
		s.writeError(ctx, w, "list items", err, itemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, itemsResponse{Items: items})
}

// getItemHandler retrieves an item by ID.
// @Summary Get item
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} itemResponse
// @Failure 404 {object} errorResponse
// @Router /items/{id} [get]
func (s *Server) getItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "getItemHandler")
	defer span.End()

	id, ok := intParam(w, "path", "id", mux.Vars(r)["id"])
	if !ok {
		return
	}
	it, err := s.store.GetItem(ctx, id)
	if err != nil {
		s.writeError(ctx, w, "get item", err, itemNotFound)
		return
	}
	writeJSON(w, http.StatusOK, itemResponse{Item: it})
}

// updateItemHandler changes the provided fields of an item.
// @Summary Update item
// @Accept json
// @Produce json
// @Param id path int true "Item ID"
// @Param item body itemPatchRequest true "Fields to change"
// @Success 200 {object} itemResponse
// @Failure 404 {object} errorResponse
// @Failure 422 {object} validationResponse
// @Router /items/{id} [put]
func (s *Server) updateItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "updateItemHandler")
	defer span.End()

	id, ok := intParam(w, "path", "id", mux.Vars(r)["id"])
	if !ok {
		return
	}
	var req itemPatchRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	it, err := s.store.UpdateItem(ctx, id, shop.ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
	})
	if err != nil {
		s.writeError(ctx, w, "update item", err, itemNotFound)
		return
	}
	s.log.Info(ctx, "item updated", "id", id)
	writeJSON(w, http.StatusOK, itemResponse{Message: "Item updated successfully", Item: it})
}

// deleteItemHandler removes an item and its cart entry.
// @Summary Delete item
// @Produce json
// @Param id path int true "Item ID"
// @Success 200 {object} messageResponse
// @Failure 404 {object} errorResponse
// @Router /items/{id} [delete]
func (s *Server) deleteItemHandler(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.AddSpan(r.Context(), "deleteItemHandler")
	defer span.End()

	id, ok := intParam(w, "path", "id", mux.Vars(r)["id"])
	if !ok {
		return
	}
	if err := s.store.RemoveItem(ctx, id); err != nil {
		s.writeError(ctx, w, "delete item", err, itemNotFound)
		return
	}
	s.log.Info(ctx, "item removed", "id", id)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Item removed successfully"})
}
