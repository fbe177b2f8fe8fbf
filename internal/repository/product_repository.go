package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"crm-commerce/internal/models"
)

// ProductFilter drives the admin/shop product listing.
type ProductFilter struct {
	Page
	Search     string
	CategoryID string
	Active     *bool
	SortBy     string
	SortOrder  string
}

var productSortColumns = map[string]string{
	"name":       "name",
	"price":      "price",
	"stock":      "stock",
	"created_at": "created_at",
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Preload("Category").First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return &product, nil
}

// FindAll lists products; the total is counted in parallel with the page query.
func (r *ProductRepository) FindAll(ctx context.Context, f ProductFilter) ([]models.Product, int64, error) {
	f.Page = f.Page.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			like := "%" + strings.ToLower(f.Search) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
		}
		if f.CategoryID != "" {
			db = db.Where("category_id = ?", f.CategoryID)
		}
		if f.Active != nil {
			db = db.Where("is_active = ?", *f.Active)
		}
		return db
	}

	var (
		total    int64
		products []models.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.Product{}).Scopes(scope).Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Scopes(scope).
			Preload("Category").
			Order(productOrder(f.SortBy, f.SortOrder)).
			Offset(f.Offset()).Limit(f.Limit).
			Find(&products).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	return products, total, nil
}

func productOrder(sortBy, sortOrder string) string {
	col, ok := productSortColumns[sortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(sortOrder, "asc") {
		dir = "ASC"
	}
	return col + " " + dir
}

func (r *ProductRepository) Update(ctx context.Context, id string, cols map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(cols)
	if err := result.Error; err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete hides the product; order items keep referencing it.
func (r *ProductRepository) SoftDelete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock subtracts qty only while enough stock remains, so concurrent
// orders cannot drive stock negative.
func (r *ProductRepository) DecrementStock(ctx context.Context, id string, qty int) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if err := result.Error; err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// IncrementStock restores stock, including for soft-deleted products.
func (r *ProductRepository) IncrementStock(ctx context.Context, id string, qty int) error {
	result := r.db.WithContext(ctx).Unscoped().Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", gorm.Expr("stock + ?", qty))
	if err := result.Error; err != nil {
		return fmt.Errorf("increment stock: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
