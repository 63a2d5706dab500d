// Package shop defines the catalog, cart and purchase records and the
// Store contract the HTTP layer is written against.
package shop

import (
	"context"
	"errors"
	"time"
)

// Item is a sellable catalog entry.
type Item struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
	Stock       int     `json:"stock"`
}

// NewItem carries the fields of an item before an id is assigned.
type NewItem struct {
	Name        string
	Description *string
	Price       float64
	Category    string
	Stock       int
}

// ItemPatch is a sparse update. Nil fields are left untouched.
type ItemPatch struct {
	Name        *string
	Description *string
	Price       *float64
	Category    *string
	Stock       *int
}

// Apply merges the non-nil fields of p into it.
func (p ItemPatch) Apply(it Item) Item {
	if p.Name != nil {
		it.Name = *p.Name
	}
	if p.Description != nil {
		d := *p.Description
		it.Description = &d
	}
	if p.Price != nil {
		it.Price = *p.Price
	}
	if p.Category != nil {
		it.Category = *p.Category
	}
	if p.Stock != nil {
		it.Stock = *p.Stock
	}
	return it
}

// CartLine is one row of the cart view.
type CartLine struct {
	ItemID   int     `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// CartView is the priced snapshot of the cart.
type CartView struct {
	Items      []CartLine `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice float64    `json:"total_price"`
}

// PurchaseLine is a cart line frozen at finalize time.
type PurchaseLine struct {
	ItemID   int     `json:"item_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

// Purchase is an immutable record of a finalized cart.
type Purchase struct {
	ID         int            `json:"id"`
	Items      []PurchaseLine `json:"items"`
	CreatedAt  time.Time      `json:"created_at"`
	TotalPrice float64        `json:"total_price"`
}

// Store is the full set of catalog, cart and checkout operations.
type Store interface {
	AddItem(ctx context.Context, in NewItem) (Item, error)
	ListItems(ctx context.Context) ([]Item, error)
	GetItem(ctx context.Context, id int) (Item, error)
	UpdateItem(ctx context.Context, id int, p ItemPatch) (Item, error)
	RemoveItem(ctx context.Context, id int) error

	AddToCart(ctx context.Context, itemID, quantity int) error
	// RemoveFromCart reports true when the entry was removed entirely.
	RemoveFromCart(ctx context.Context, itemID, quantity int) (bool, error)
	Cart(ctx context.Context) (CartView, error)

	Finalize(ctx context.Context) (Purchase, error)
	ListPurchases(ctx context.Context) ([]Purchase, error)
	GetPurchase(ctx context.Context, id int) (Purchase, error)

	Reset(ctx context.Context) error
}

// PurchaseSink receives purchases after they are committed.
type PurchaseSink interface {
	Record(ctx context.Context, p Purchase) error
}

var (
	// ErrItemNotFound indicates the requested catalog item does not exist.
	ErrItemNotFound = errors.New("item not found")
	// ErrNotInCart indicates the cart holds no entry for the item.
	ErrNotInCart = errors.New("item not in cart")
	// ErrInsufficientStock indicates catalog stock is below the requested quantity.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrOverRemoval indicates a removal larger than the quantity in the cart.
	ErrOverRemoval = errors.New("cannot remove more items than are in the cart")
	// ErrCartEmpty indicates finalize was called with nothing in the cart.
	ErrCartEmpty = errors.New("cart is empty")
	// ErrInconsistent indicates a cart entry references a missing catalog item.
	ErrInconsistent = errors.New("cart references missing item")
	// ErrPurchaseNotFound indicates the requested purchase does not exist.
	ErrPurchaseNotFound = errors.New("purchase not found")
)
