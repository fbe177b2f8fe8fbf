package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crm-commerce/internal/models"
)

type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// Items returns the customer's cart lines oldest first. Products are loaded
// unscoped so a soft-deleted product still has a name to report.
func (r *CartRepository) Items(ctx context.Context, customerID string) ([]models.CartItem, error) {
	var items []models.CartItem
	err := r.db.WithContext(ctx).
		Preload("Product", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
		Where("customer_id = ?", customerID).
		Order("created_at").Order("id").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	return items, nil
}

// Find returns the customer's line for productID or ErrNotFound.
func (r *CartRepository) Find(ctx context.Context, customerID, productID string) (*models.CartItem, error) {
	var item models.CartItem
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find cart item: %w", err)
	}
	return &item, nil
}

// Save inserts a new line or updates the quantity of an existing one.
func (r *CartRepository) Save(ctx context.Context, item *models.CartItem) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(item).Error; err != nil {
		return fmt.Errorf("save cart item: %w", err)
	}
	return nil
}

// AddQuantity adds qty to the customer's line for productID in one statement,
// creating the line when absent, and returns the resulting quantity. Concurrent
// calls serialize on the (customer_id, product_id) unique index.
func (r *CartRepository) AddQuantity(ctx context.Context, customerID, productID string, qty int) (int, error) {
	item := models.CartItem{CustomerID: customerID, ProductID: productID, Quantity: qty}
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "customer_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity":   gorm.Expr("cart_items.quantity + excluded.quantity"),
				"updated_at": gorm.Expr("excluded.updated_at"),
			}),
		}).
		Create(&item).Error
	if err != nil {
		return 0, fmt.Errorf("add cart quantity: %w", err)
	}

	var total int
	err = r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Select("quantity").
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Scan(&total).Error
	if err != nil {
		return 0, fmt.Errorf("read cart quantity: %w", err)
	}
	return total, nil
}

func (r *CartRepository) Delete(ctx context.Context, customerID, productID string) error {
	result := r.db.WithContext(ctx).
		Where("customer_id = ? AND product_id = ?", customerID, productID).
		Delete(&models.CartItem{})
	if err := result.Error; err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Clear removes every line of the customer's cart and reports how many were removed.
func (r *CartRepository) Clear(ctx context.Context, customerID string) (int64, error) {
	result := r.db.WithContext(ctx).Where("customer_id = ?", customerID).Delete(&models.CartItem{})
	if err := result.Error; err != nil {
		return 0, fmt.Errorf("clear cart: %w", err)
	}
	return result.RowsAffected, nil
}
