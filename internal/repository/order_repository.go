package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"crm-commerce/internal/models"
)

// OrderFilter narrows an order listing. An empty CustomerID lists every customer's orders.
type OrderFilter struct {
	Page
	CustomerID string
	Status     models.OrderStatus
	Search     string
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order together with its items.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order) error {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

// FindByID loads the order with its items and a summary of each product.
func (r *OrderRepository) FindByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("created_at").Order("id") }).
		Preload("Items.Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return &order, nil
}

// List returns one page of orders matching f, newest first, plus the total count.
func (r *OrderRepository) List(ctx context.Context, f OrderFilter) ([]models.Order, int64, error) {
	f.Page = f.Page.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		if f.CustomerID != "" {
			db = db.Where("customer_id = ?", f.CustomerID)
		}
		if f.Status != "" {
			db = db.Where("status = ?", f.Status)
		}
		if f.Search != "" {
			like := "%" + strings.ToLower(f.Search) + "%"
			db = db.Where("LOWER(order_number) LIKE ? OR LOWER(recipient_name) LIKE ?", like, like)
		}
		return db
	}

	var (
		total  int64
		orders []models.Order
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.Order{}).Scopes(scope).Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Scopes(scope).
			Preload("Items").
			Order("created_at DESC").Order("id").
			Offset(f.Offset()).Limit(f.Limit).
			Find(&orders).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	return orders, total, nil
}

// UpdateStatus applies cols only if the order is still in status from.
func (r *OrderRepository) UpdateStatus(ctx context.Context, id string, from models.OrderStatus, cols map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(cols)
	if err := result.Error; err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}

// PlacedBetween returns orders created in [from, to) whose status is not excluded.
func (r *OrderRepository) PlacedBetween(ctx context.Context, from, to time.Time, exclude ...models.OrderStatus) ([]models.Order, error) {
	q := r.db.WithContext(ctx).Where("created_at >= ? AND created_at < ?", from.UTC(), to.UTC())
	if len(exclude) > 0 {
		q = q.Where("status NOT IN ?", exclude)
	}
	var orders []models.Order
	if err := q.Order("created_at").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("orders between: %w", err)
	}
	return orders, nil
}
