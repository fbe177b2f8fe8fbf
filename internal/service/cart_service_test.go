package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestCartService_AddAccumulatesUpToStock(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewCartService(store)
	seedDefaultRate(t, store, 500, 2500)
	p := seedProduct(t, store, "A", 1000, 3)

	view, err := svc.AddItem(ctx, "c1", p.ID, 1)
	require.NoError(t, err)
	view, err = svc.AddItem(ctx, "c1", p.ID, 1)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].Quantity)
	assert.True(t, view.Items[0].Available)
	assert.True(t, dec(2000).Equal(view.Quote.SubtotalAmount))
	assert.True(t, dec(500).Equal(view.Quote.ShippingFee))

	_, err = svc.AddItem(ctx, "c1", p.ID, 2)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "quantity", verr.Field)

	view, err = svc.SetQuantity(ctx, "c1", p.ID, 3)
	require.NoError(t, err)
	assert.True(t, view.Quote.ShippingFee.IsZero())
}

func TestCartService_RejectedAddKeepsLine(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewCartService(store)
	p := seedProduct(t, store, "A", 1000, 3)

	_, err := svc.AddItem(ctx, "c1", p.ID, 2)
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "c1", p.ID, 2)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, `only 3 of "Product A" in stock`)

	item, err := store.Carts.Find(ctx, "c1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)
}

func TestCartService_ConcurrentAddsNeverExceedStock(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewCartService(store)
	p := seedProduct(t, store, "A", 1000, 5)

	var g errgroup.Group
	results := make([]error, 8)
	for i := range results {
		g.Go(func() error {
			_, results[i] = svc.AddItem(ctx, "c1", p.ID, 1)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok, rejected int
	for _, err := range results {
		var verr *ValidationError
		switch {
		case err == nil:
			ok++
		case assert.ErrorAs(t, err, &verr):
			rejected++
		}
	}
	assert.Equal(t, 5, ok)
	assert.Equal(t, 3, rejected)

	item, err := store.Carts.Find(ctx, "c1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, item.Quantity)
}

func TestCartService_RejectsUnavailableProducts(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewCartService(store)
	p := seedProduct(t, store, "A", 1000, 3)
	require.NoError(t, store.Products.Update(ctx, p.ID, map[string]any{"is_active": false}))

	_, err := svc.AddItem(ctx, "c1", p.ID, 1)
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.AddItem(ctx, "c1", "missing", 1)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.AddItem(ctx, "c1", p.ID, 0)
	assert.ErrorAs(t, err, &verr)
}

func TestCartService_QuoteSkipsUnavailableLines(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewCartService(store)
	a := seedProduct(t, store, "A", 1000, 3)
	b := seedProduct(t, store, "B", 700, 3)
	seedCart(t, store, "c1", a.ID, 1)
	seedCart(t, store, "c1", b.ID, 1)
	require.NoError(t, store.Products.SoftDelete(ctx, b.ID))

	view, err := svc.View(ctx, "c1")
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
	for _, line := range view.Items {
		assert.Equal(t, line.ProductID == a.ID, line.Available, line.Name)
	}
	assert.True(t, dec(1000).Equal(view.Quote.SubtotalAmount))
}

func TestCartService_RemoveAndClear(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewCartService(store)
	a := seedProduct(t, store, "A", 1000, 3)
	b := seedProduct(t, store, "B", 1000, 3)
	seedCart(t, store, "c1", a.ID, 1)
	seedCart(t, store, "c1", b.ID, 1)

	require.NoError(t, svc.RemoveItem(ctx, "c1", a.ID))
	assert.ErrorIs(t, svc.RemoveItem(ctx, "c1", a.ID), ErrNotFound)

	_, err := svc.SetQuantity(ctx, "c1", a.ID, 1)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svc.Clear(ctx, "c1"))
	view, err := svc.View(ctx, "c1")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Quote.TotalAmount.IsZero())
}
