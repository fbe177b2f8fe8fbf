package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"crm-commerce/internal/models"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).Preload("ShippingRate").First(&category, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := r.db.WithContext(ctx).Preload("ShippingRate").Order("name").Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Update(ctx context.Context, id string, cols map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.Category{}).Where("id = ?", id).Updates(cols)
	if err := result.Error; err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete detaches products, drops the category's shipping rate and removes the category.
// Callers should run it inside a transaction.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Unscoped().Model(&models.Product{}).Where("category_id = ?", id).
		Update("category_id", nil).Error; err != nil {
		return fmt.Errorf("detach products: %w", err)
	}
	if err := db.Where("category_id = ?", id).Delete(&models.ShippingRate{}).Error; err != nil {
		return fmt.Errorf("delete category rate: %w", err)
	}
	result := db.Delete(&models.Category{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
