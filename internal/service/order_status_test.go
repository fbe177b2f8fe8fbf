package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"crm-commerce/internal/models"
)

func TestCanTransition(t *testing.T) {
	all := []models.OrderStatus{
		models.OrderPending, models.OrderShipped, models.OrderBackordered,
		models.OrderCancelled, models.OrderCompleted,
	}
	allowed := map[[2]models.OrderStatus]bool{
		{models.OrderPending, models.OrderShipped}:       true,
		{models.OrderPending, models.OrderBackordered}:   true,
		{models.OrderPending, models.OrderCancelled}:     true,
		{models.OrderBackordered, models.OrderPending}:   true,
		{models.OrderBackordered, models.OrderCancelled}: true,
	}

	for _, from := range all {
		for _, to := range all {
			assert.Equal(t, allowed[[2]models.OrderStatus{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
}

func TestCustomerCanCancel(t *testing.T) {
	assert.True(t, CustomerCanCancel(models.OrderPending))
	assert.True(t, CustomerCanCancel(models.OrderBackordered))
	assert.False(t, CustomerCanCancel(models.OrderShipped))
	assert.False(t, CustomerCanCancel(models.OrderCancelled))
	assert.False(t, CustomerCanCancel(models.OrderCompleted))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(models.OrderPending))
	assert.True(t, IsTerminal(models.OrderShipped))
	assert.True(t, IsTerminal(models.OrderCompleted))
}
