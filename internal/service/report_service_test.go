package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/auth"
	"crm-commerce/internal/models"
)

func TestReportService_SalesExcludesCancelled(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	seedCustomer(t, store, "c1")
	seedDefaultRate(t, store, 500, 100000)
	orders, err := NewOrderService(store, audit.Nop{}, false)
	require.NoError(t, err)

	p := seedProduct(t, store, "A", 1000, 10)
	var placed []*models.Order
	for range 3 {
		seedCart(t, store, "c1", p.ID, 1)
		o, err := orders.PlaceOrder(ctx, customer("c1"), checkout)
		require.NoError(t, err)
		placed = append(placed, o)
	}
	_, err = orders.UpdateStatus(ctx, admin(auth.PermOrdersManage), placed[0].ID, models.OrderCancelled, "")
	require.NoError(t, err)

	now := time.Now().UTC()
	report, err := NewReportService(store).Sales(ctx, now.Add(-24*time.Hour), now.Add(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 2, report.OrderCount)
	assert.True(t, dec(3000).Equal(report.Revenue))
	assert.True(t, dec(1000).Equal(report.ShippingCollected))

	var daily int
	for _, d := range report.Daily {
		daily += d.Orders
	}
	assert.Equal(t, 2, daily)
}

func TestReportService_InvalidRange(t *testing.T) {
	svc := NewReportService(newTestStore(t))
	now := time.Now()

	_, err := svc.Sales(context.Background(), now, now.Add(-time.Hour))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = svc.Sales(context.Background(), now.AddDate(-2, 0, 0), now)
	assert.ErrorAs(t, err, &verr)
}
