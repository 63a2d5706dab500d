package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/shop"
)

func laptop() shop.NewItem {
	return shop.NewItem{Name: "Laptop", Price: 1000, Category: "electronics", Stock: 10}
}

func mouse() shop.NewItem {
	return shop.NewItem{Name: "Mouse", Price: 50, Category: "accessories", Stock: 50}
}

func TestRepository(t *testing.T) {
	ctx := context.Background()
	repo := New()
	it, err := repo.AddItem(ctx, laptop())
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	got, err := repo.GetItem(ctx, it.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "Laptop" {
		t.Fatalf("expected Laptop, got %s", got.Name)
	}
	name := "Gadget"
	if _, err := repo.UpdateItem(ctx, it.ID, shop.ItemPatch{Name: &name}); err != nil {
		t.Fatalf("update: %v", err)
	}
	list, err := repo.ListItems(ctx)
	if err != nil || len(list) != 1 {
		t.Fatalf("list: %v len=%d", err, len(list))
	}
	if err := repo.RemoveItem(ctx, it.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := repo.GetItem(ctx, it.ID); err == nil {
		t.Fatal("expected error after remove")
	}
}

func TestAddItemAssignsSequentialIDs(t *testing.T) {
	ctx := context.Background()
	s := New()
	for want := 1; want <= 5; want++ {
		it, err := s.AddItem(ctx, laptop())
		require.NoError(t, err)
		assert.Equal(t, want, it.ID)
	}

	require.NoError(t, s.Reset(ctx))
	it, err := s.AddItem(ctx, mouse())
	require.NoError(t, err)
	assert.Equal(t, 1, it.ID)
}

func TestAddThenGetRoundTrips(t *testing.T) {
	ctx := context.Background()
	s := New()
	desc := "High-performance laptop"
	in := laptop()
	in.Description = &desc

	added, err := s.AddItem(ctx, in)
	require.NoError(t, err)
	got, err := s.GetItem(ctx, added.ID)
	require.NoError(t, err)
	assert.Equal(t, added, got)
	assert.Equal(t, "High-performance laptop", *got.Description)
}

func TestListItemsKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()
	names := []string{"c", "a", "b", "d"}
	for _, n := range names {
		_, err := s.AddItem(ctx, shop.NewItem{Name: n, Price: 1, Category: "x"})
		require.NoError(t, err)
	}
	require.NoError(t, s.RemoveItem(ctx, 2))

	list, err := s.ListItems(ctx)
	require.NoError(t, err)
	var got []string
	for _, it := range list {
		got = append(got, it.Name)
	}
	assert.Equal(t, []string{"c", "b", "d"}, got)
}

func TestUpdateItemChangesOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	s := New()
	it, err := s.AddItem(ctx, laptop())
	require.NoError(t, err)

	price := 899.99
	stock := 5
	got, err := s.UpdateItem(ctx, it.ID, shop.ItemPatch{Price: &price, Stock: &stock})
	require.NoError(t, err)
	assert.Equal(t, 899.99, got.Price)
	assert.Equal(t, 5, got.Stock)
	assert.Equal(t, "Laptop", got.Name)
	assert.Equal(t, "electronics", got.Category)

	_, err = s.UpdateItem(ctx, 999, shop.ItemPatch{Price: &price})
	assert.ErrorIs(t, err, shop.ErrItemNotFound)
}

func TestReturnedItemsAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	desc := "orig"
	in := laptop()
	in.Description = &desc
	it, err := s.AddItem(ctx, in)
	require.NoError(t, err)

	*it.Description = "changed"
	desc = "changed too"
	got, err := s.GetItem(ctx, it.ID)
	require.NoError(t, err)
	assert.Equal(t, "orig", *got.Description)
}

func TestRemoveItemPurgesCartEntry(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.AddItem(ctx, laptop())
	b, _ := s.AddItem(ctx, mouse())
	require.NoError(t, s.AddToCart(ctx, a.ID, 2))
	require.NoError(t, s.AddToCart(ctx, b.ID, 1))

	require.NoError(t, s.RemoveItem(ctx, a.ID))

	view, err := s.Cart(ctx)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, b.ID, view.Items[0].ItemID)
	_, err = s.RemoveFromCart(ctx, a.ID, 1)
	assert.ErrorIs(t, err, shop.ErrNotInCart)

	assert.ErrorIs(t, s.RemoveItem(ctx, a.ID), shop.ErrItemNotFound)
}

func TestAddToCart(t *testing.T) {
	ctx := context.Background()
	s := New()
	it, _ := s.AddItem(ctx, shop.NewItem{Name: "Laptop", Price: 999.99, Category: "electronics", Stock: 5})

	assert.ErrorIs(t, s.AddToCart(ctx, 42, 1), shop.ErrItemNotFound)
	assert.ErrorIs(t, s.AddToCart(ctx, it.ID, 6), shop.ErrInsufficientStock)

	got, _ := s.GetItem(ctx, it.ID)
	assert.Equal(t, 5, got.Stock, "failed add must not touch stock")
	view, _ := s.Cart(ctx)
	assert.Empty(t, view.Items)

	require.NoError(t, s.AddToCart(ctx, it.ID, 5))
	// the check is against catalog stock only, so this overcommits
	require.NoError(t, s.AddToCart(ctx, it.ID, 3))
	view, _ = s.Cart(ctx)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 8, view.Items[0].Quantity)
}

func TestRemoveFromCart(t *testing.T) {
	ctx := context.Background()
	s := New()
	it, _ := s.AddItem(ctx, laptop())
	require.NoError(t, s.AddToCart(ctx, it.ID, 5))

	_, err := s.RemoveFromCart(ctx, 999, 1)
	assert.ErrorIs(t, err, shop.ErrNotInCart)

	_, err = s.RemoveFromCart(ctx, it.ID, 6)
	assert.ErrorIs(t, err, shop.ErrOverRemoval)
	view, _ := s.Cart(ctx)
	assert.Equal(t, 5, view.TotalItems)

	full, err := s.RemoveFromCart(ctx, it.ID, 2)
	require.NoError(t, err)
	assert.False(t, full)
	view, _ = s.Cart(ctx)
	assert.Equal(t, 3, view.TotalItems)

	full, err = s.RemoveFromCart(ctx, it.ID, 3)
	require.NoError(t, err)
	assert.True(t, full)
	view, _ = s.Cart(ctx)
	assert.Empty(t, view.Items)
	assert.Zero(t, view.TotalItems)
}

func TestCartTotals(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.AddItem(ctx, laptop())
	b, _ := s.AddItem(ctx, mouse())
	require.NoError(t, s.AddToCart(ctx, b.ID, 3))
	require.NoError(t, s.AddToCart(ctx, a.ID, 2))

	view, err := s.Cart(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, view.TotalItems)
	assert.Equal(t, 2150.0, view.TotalPrice)
	require.Len(t, view.Items, 2)
	assert.Equal(t, shop.CartLine{ItemID: 1, Name: "Laptop", Price: 1000, Quantity: 2, Subtotal: 2000}, view.Items[0])
	assert.Equal(t, shop.CartLine{ItemID: 2, Name: "Mouse", Price: 50, Quantity: 3, Subtotal: 150}, view.Items[1])
}

func TestCartSkipsDanglingEntries(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.AddItem(ctx, laptop())
	require.NoError(t, s.AddToCart(ctx, a.ID, 1))
	s.cart[77] = 4

	view, err := s.Cart(ctx)
	require.NoError(t, err)
	assert.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.TotalItems)
	assert.Equal(t, 1000.0, view.TotalPrice)
}

func TestFinalize(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := New(WithClock(func() time.Time { return at }))
	a, _ := s.AddItem(ctx, laptop())
	b, _ := s.AddItem(ctx, mouse())
	require.NoError(t, s.AddToCart(ctx, a.ID, 2))
	require.NoError(t, s.AddToCart(ctx, b.ID, 3))
	before, _ := s.Cart(ctx)

	p, err := s.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, p.ID)
	assert.Equal(t, at, p.CreatedAt)
	assert.Equal(t, before.TotalPrice, p.TotalPrice)
	assert.Equal(t, 2150.0, p.TotalPrice)
	require.Len(t, p.Items, 2)
	assert.Equal(t, shop.PurchaseLine{ItemID: 1, Name: "Laptop", Price: 1000, Quantity: 2, Subtotal: 2000}, p.Items[0])

	ga, _ := s.GetItem(ctx, a.ID)
	gb, _ := s.GetItem(ctx, b.ID)
	assert.Equal(t, 8, ga.Stock)
	assert.Equal(t, 47, gb.Stock)

	view, _ := s.Cart(ctx)
	assert.Empty(t, view.Items)

	all, err := s.ListPurchases(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	got, err := s.GetPurchase(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, p, got)
	_, err = s.GetPurchase(ctx, 2)
	assert.ErrorIs(t, err, shop.ErrPurchaseNotFound)
	_, err = s.GetPurchase(ctx, 0)
	assert.ErrorIs(t, err, shop.ErrPurchaseNotFound)
}

func TestFinalizeEmptyCartChangesNothing(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.AddItem(ctx, laptop())

	_, err := s.Finalize(ctx)
	assert.ErrorIs(t, err, shop.ErrCartEmpty)

	got, _ := s.GetItem(ctx, a.ID)
	assert.Equal(t, 10, got.Stock)
	ps, _ := s.ListPurchases(ctx)
	assert.Empty(t, ps)
}

func TestFinalizeAllowsNegativeStock(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.AddItem(ctx, laptop())
	require.NoError(t, s.AddToCart(ctx, a.ID, 4))
	low := 1
	_, err := s.UpdateItem(ctx, a.ID, shop.ItemPatch{Stock: &low})
	require.NoError(t, err)

	_, err = s.Finalize(ctx)
	require.NoError(t, err)
	got, _ := s.GetItem(ctx, a.ID)
	assert.Equal(t, -3, got.Stock)
}

func TestFinalizeDanglingEntryLeavesStock(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.AddItem(ctx, laptop())
	require.NoError(t, s.AddToCart(ctx, a.ID, 2))
	s.cart[99] = 1

	_, err := s.Finalize(ctx)
	require.Error(t, err)
	assert.True(t, errors.Is(err, shop.ErrInconsistent))
	assert.Contains(t, err.Error(), "item 99")

	got, _ := s.GetItem(ctx, a.ID)
	assert.Equal(t, 10, got.Stock)
	assert.Len(t, s.cart, 2)
	ps, _ := s.ListPurchases(ctx)
	assert.Empty(t, ps)
}

func TestPurchaseIDsAreSequential(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, _ := s.AddItem(ctx, laptop())
	for want := 1; want <= 3; want++ {
		require.NoError(t, s.AddToCart(ctx, a.ID, 1))
		p, err := s.Finalize(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, p.ID)
	}
}
