// Package memory implements an in-memory shop.Store.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"storefront/pkg/shop"
)

// Store keeps the catalog, the cart and the purchase log in process memory.
// A single mutex covers all three tables and both id counters, so every
// operation is one critical section.
type Store struct {
	mu sync.Mutex

	items     map[int]shop.Item
	order     []int
	cart      map[int]int
	purchases []shop.Purchase

	lastItemID     int
	lastPurchaseID int

	now func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source used to stamp purchases.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{now: time.Now}
	for _, o := range opts {
		o(s)
	}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.items = make(map[int]shop.Item)
	s.order = nil
	s.cart = make(map[int]int)
	s.purchases = nil
	s.lastItemID = 0
	s.lastPurchaseID = 0
}

// Reset drops all state and restarts both id sequences at 1.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
	return nil
}

// AddItem stores a new catalog item under the next sequential id.
func (s *Store) AddItem(ctx context.Context, in shop.NewItem) (shop.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastItemID++
	it := shop.Item{
		ID:          s.lastItemID,
		Name:        in.Name,
		Description: cloneString(in.Description),
		Price:       in.Price,
		Category:    in.Category,
		Stock:       in.Stock,
	}
	s.items[it.ID] = it
	s.order = append(s.order, it.ID)
	return copyItem(it), nil
}

// ListItems returns all items in insertion order.
func (s *Store) ListItems(ctx context.Context) ([]shop.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shop.Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, copyItem(s.items[id]))
	}
	return out, nil
}

// GetItem retrieves an item by ID.
func (s *Store) GetItem(ctx context.Context, id int) (shop.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return shop.Item{}, shop.ErrItemNotFound
	}
	return copyItem(it), nil
}

// UpdateItem merges the provided fields into an existing item.
func (s *Store) UpdateItem(ctx context.Context, id int, p shop.ItemPatch) (shop.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return shop.Item{}, shop.ErrItemNotFound
	}
	it = p.Apply(it)
	s.items[id] = it
	return copyItem(it), nil
}

// RemoveItem deletes an item and any cart entry that references it.
func (s *Store) RemoveItem(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return shop.ErrItemNotFound
	}
	delete(s.items, id)
	delete(s.cart, id)
	s.order = slices.DeleteFunc(s.order, func(v int) bool { return v == id })
	return nil
}

// AddToCart increments the cart entry for itemID. Stock is checked against
// the catalog only; nothing is reserved until Finalize.
func (s *Store) AddToCart(ctx context.Context, itemID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[itemID]
	if !ok {
		return shop.ErrItemNotFound
	}
	if it.Stock < quantity {
		return shop.ErrInsufficientStock
	}
	s.cart[itemID] += quantity
	return nil
}

// RemoveFromCart takes quantity units of itemID out of the cart.
func (s *Store) RemoveFromCart(ctx context.Context, itemID, quantity int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	have, ok := s.cart[itemID]
	if !ok {
		return false, shop.ErrNotInCart
	}
	switch {
	case quantity > have:
		return false, shop.ErrOverRemoval
	case quantity == have:
		delete(s.cart, itemID)
		return true, nil
	default:
		s.cart[itemID] = have - quantity
		return false, nil
	}
}

// Cart prices every entry whose item still resolves in the catalog.
func (s *Store) Cart(ctx context.Context) (shop.CartView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var t shop.Tally
	lines := make([]shop.CartLine, 0, len(s.cart))
	for _, id := range s.cartIDs() {
		it, ok := s.items[id]
		if !ok {
			continue
		}
		qty := s.cart[id]
		lines = append(lines, shop.CartLine{
			ItemID:   id,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: qty,
			Subtotal: t.Add(it.Price, qty),
		})
	}
	return shop.CartView{Items: lines, TotalItems: t.Items(), TotalPrice: t.Total()}, nil
}

// Finalize turns the cart into a purchase and decrements stock.
//
// Every entry is resolved before any stock changes, so a dangling entry
// aborts with shop.ErrInconsistent and leaves the catalog untouched. Stock
// has no floor: an item whose stock was lowered after it was carted can go
// negative here.
func (s *Store) Finalize(ctx context.Context) (shop.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.cart) == 0 {
		return shop.Purchase{}, shop.ErrCartEmpty
	}
	ids := s.cartIDs()
	for _, id := range ids {
		if _, ok := s.items[id]; !ok {
			return shop.Purchase{}, fmt.Errorf("%w: item %d", shop.ErrInconsistent, id)
		}
	}

	var t shop.Tally
	lines := make([]shop.PurchaseLine, 0, len(ids))
	for _, id := range ids {
		it := s.items[id]
		qty := s.cart[id]
		it.Stock -= qty
		s.items[id] = it
		lines = append(lines, shop.PurchaseLine{
			ItemID:   id,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: qty,
			Subtotal: t.Add(it.Price, qty),
		})
	}

	s.lastPurchaseID++
	p := shop.Purchase{
		ID:         s.lastPurchaseID,
		Items:      lines,
		CreatedAt:  s.now().UTC(),
		TotalPrice: t.Total(),
	}
	s.purchases = append(s.purchases, p)
	clear(s.cart)
	return copyPurchase(p), nil
}

// ListPurchases returns purchases oldest first.
func (s *Store) ListPurchases(ctx context.Context) ([]shop.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]shop.Purchase, 0, len(s.purchases))
	for _, p := range s.purchases {
		out = append(out, copyPurchase(p))
	}
	return out, nil
}

// GetPurchase retrieves a purchase by ID.
func (s *Store) GetPurchase(ctx context.Context, id int) (shop.Purchase, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// ids are dense and start at 1
	if id < 1 || id > len(s.purchases) {
		return shop.Purchase{}, shop.ErrPurchaseNotFound
	}
	return copyPurchase(s.purchases[id-1]), nil
}

// cartIDs returns the carted item ids in ascending order. Callers hold mu.
func (s *Store) cartIDs() []int {
	ids := make([]int, 0, len(s.cart))
	for id := range s.cart {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyItem(it shop.Item) shop.Item {
	it.Description = cloneString(it.Description)
	return it
}

func copyPurchase(p shop.Purchase) shop.Purchase {
	p.Items = slices.Clone(p.Items)
	return p
}

var _ shop.Store = (*Store)(nil)
