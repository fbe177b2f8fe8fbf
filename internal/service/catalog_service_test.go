package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/models"
	"crm-commerce/internal/repository"
)

func TestCatalogService_ProductLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	rec := &recordingAudit{}
	svc := NewCatalogService(store, rec)

	cat, err := svc.CreateCategory(ctx, CategoryInput{Name: "Books", Type: models.CategoryPhysical})
	require.NoError(t, err)

	product, err := svc.CreateProduct(ctx, ProductInput{SKU: " BK-1 ", Name: "Go book", Price: dec(1500), Stock: 4, CategoryID: &cat.ID})
	require.NoError(t, err)
	assert.Equal(t, "BK-1", product.SKU)
	assert.True(t, product.IsActive)

	_, err = svc.CreateProduct(ctx, ProductInput{SKU: "BK-1", Name: "Dup", Price: dec(1)})
	assert.ErrorIs(t, err, ErrConflict)

	missing := "nope"
	_, err = svc.CreateProduct(ctx, ProductInput{SKU: "BK-2", Name: "Orphan", CategoryID: &missing})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	price := dec(1200)
	inactive := false
	updated, err := svc.UpdateProduct(ctx, product.ID, models.ProductUpdate{Price: &price, IsActive: &inactive})
	require.NoError(t, err)
	assert.True(t, price.Equal(updated.Price))
	assert.False(t, updated.IsActive)

	page, err := svc.ListProducts(ctx, repository.ProductFilter{CategoryID: cat.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)

	require.NoError(t, svc.DeleteProduct(ctx, product.ID))
	_, err = svc.GetProduct(ctx, product.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, product.ID), ErrNotFound)

	assert.Equal(t, []string{audit.ActionCreate, audit.ActionCreate, audit.ActionUpdate, audit.ActionDelete}, rec.actions())
}

func TestCatalogService_CategoryUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewCatalogService(store, audit.Nop{})

	cat, err := svc.CreateCategory(ctx, CategoryInput{Name: "Courses", Type: models.CategoryCourse})
	require.NoError(t, err)
	_, err = svc.CreateCategory(ctx, CategoryInput{Name: "Courses", Type: models.CategoryCourse})
	assert.ErrorIs(t, err, ErrConflict)

	name := "Online courses"
	got, err := svc.UpdateCategory(ctx, cat.ID, CategoryUpdate{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, name, got.Name)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))
	_, err = svc.GetCategory(ctx, cat.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestShippingRateService_SingleActiveDefault(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	svc := NewShippingRateService(store, audit.Nop{})

	first, err := svc.Create(ctx, ShippingRateInput{Name: "standard", ShippingFee: dec(500)})
	require.NoError(t, err)
	threshold := dec(2500)
	second, err := svc.Create(ctx, ShippingRateInput{Name: "promo", ShippingFee: dec(300), FreeShippingThreshold: &threshold})
	require.NoError(t, err)

	reloaded, err := store.ShippingRates.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	active := true
	_, err = svc.Update(ctx, first.ID, ShippingRateUpdate{IsActive: &active, ClearThreshold: true})
	require.NoError(t, err)
	reloaded, err = store.ShippingRates.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.IsActive)

	def, err := store.ShippingRates.ActiveDefaultRate(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.ID, def.ID)
}

func TestShippingRateService_CategoryRates(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	catalog := NewCatalogService(store, audit.Nop{})
	svc := NewShippingRateService(store, audit.Nop{})

	cat, err := catalog.CreateCategory(ctx, CategoryInput{Name: "Heavy", Type: models.CategoryPhysical})
	require.NoError(t, err)

	_, err = svc.Create(ctx, ShippingRateInput{CategoryID: &cat.ID, ShippingFee: dec(900)})
	require.NoError(t, err)
	_, err = svc.Create(ctx, ShippingRateInput{CategoryID: &cat.ID, ShippingFee: dec(100)})
	assert.ErrorIs(t, err, ErrConflict)

	missing := "missing"
	_, err = svc.Create(ctx, ShippingRateInput{CategoryID: &missing, ShippingFee: dec(100)})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Create(ctx, ShippingRateInput{ShippingFee: dec(-1)})
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Update(ctx, "missing", ShippingRateUpdate{})
	assert.ErrorIs(t, err, ErrNotFound)
}
