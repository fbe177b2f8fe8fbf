package service

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/auth"
	"crm-commerce/internal/database"
	"crm-commerce/internal/models"
	"crm-commerce/internal/repository"
)

type recordingAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (r *recordingAudit) Record(_ context.Context, e audit.Entry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recordingAudit) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := database.Open("sqlite", ":memory:", zerolog.Nop())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return repository.NewStore(db)
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func customer(id string) auth.Principal {
	return auth.Principal{UserID: id, Role: auth.RoleCustomer}
}

func admin(perms ...string) auth.Principal {
	return auth.Principal{UserID: "admin-1", Role: auth.RoleAdmin, Permissions: perms}
}

func seedCustomer(t *testing.T, store *repository.Store, id string) {
	t.Helper()
	c := &models.Customer{Base: models.Base{ID: id}, Name: "Customer " + id}
	require.NoError(t, store.Customers.Create(context.Background(), c))
}

func seedProduct(t *testing.T, store *repository.Store, sku string, price int64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{SKU: sku, Name: "Product " + sku, Price: dec(price), Stock: stock, IsActive: true}
	require.NoError(t, store.Products.Create(context.Background(), p))
	return p
}

func seedCart(t *testing.T, store *repository.Store, customerID, productID string, qty int) {
	t.Helper()
	require.NoError(t, store.Carts.Save(context.Background(),
		&models.CartItem{CustomerID: customerID, ProductID: productID, Quantity: qty}))
}

func seedDefaultRate(t *testing.T, store *repository.Store, fee, threshold int64) {
	t.Helper()
	require.NoError(t, store.ShippingRates.Create(context.Background(), &models.ShippingRate{
		Name:                  "default",
		ShippingFee:           dec(fee),
		FreeShippingThreshold: decimal.NewNullDecimal(dec(threshold)),
		IsActive:              true,
	}))
}

// snapshot captures every row the order workflow may touch.
type snapshot struct {
	Orders     int64
	OrderItems int64
	CartItems  int64
	Stock      map[string]int
}

func takeSnapshot(t *testing.T, store *repository.Store) snapshot {
	t.Helper()
	db := store.DB()
	var s snapshot
	require.NoError(t, db.Model(&models.Order{}).Count(&s.Orders).Error)
	require.NoError(t, db.Model(&models.OrderItem{}).Count(&s.OrderItems).Error)
	require.NoError(t, db.Model(&models.CartItem{}).Count(&s.CartItems).Error)

	var products []models.Product
	require.NoError(t, db.Unscoped().Find(&products).Error)
	s.Stock = make(map[string]int, len(products))
	for _, p := range products {
		s.Stock[p.ID] = p.Stock
	}
	return s
}
