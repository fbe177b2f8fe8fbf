package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"crm-commerce/internal/models"
)

type ShippingRateRepository struct {
	db *gorm.DB
}

func NewShippingRateRepository(db *gorm.DB) *ShippingRateRepository {
	return &ShippingRateRepository{db: db}
}

func (r *ShippingRateRepository) Create(ctx context.Context, rate *models.ShippingRate) error {
	if err := r.db.WithContext(ctx).Create(rate).Error; err != nil {
		return fmt.Errorf("create shipping rate: %w", err)
	}
	return nil
}

func (r *ShippingRateRepository) FindByID(ctx context.Context, id string) (*models.ShippingRate, error) {
	var rate models.ShippingRate
	if err := r.db.WithContext(ctx).First(&rate, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find shipping rate: %w", err)
	}
	return &rate, nil
}

func (r *ShippingRateRepository) FindAll(ctx context.Context) ([]models.ShippingRate, error) {
	var rates []models.ShippingRate
	if err := r.db.WithContext(ctx).Order("created_at").Find(&rates).Error; err != nil {
		return nil, fmt.Errorf("list shipping rates: %w", err)
	}
	return rates, nil
}

// Save writes every column of rate.
func (r *ShippingRateRepository) Save(ctx context.Context, rate *models.ShippingRate) error {
	if err := r.db.WithContext(ctx).Save(rate).Error; err != nil {
		return fmt.Errorf("save shipping rate: %w", err)
	}
	return nil
}

func (r *ShippingRateRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.ShippingRate{}, "id = ?", id)
	if err := result.Error; err != nil {
		return fmt.Errorf("delete shipping rate: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeactivateOtherDefaults switches off every active default rate except keepID.
func (r *ShippingRateRepository) DeactivateOtherDefaults(ctx context.Context, keepID string) error {
	err := r.db.WithContext(ctx).Model(&models.ShippingRate{}).
		Where("category_id IS NULL AND is_active = ? AND id <> ?", true, keepID).
		Update("is_active", false).Error
	if err != nil {
		return fmt.Errorf("deactivate default rates: %w", err)
	}
	return nil
}

// ActiveCategoryRates returns the active rates bound to any of categoryIDs.
func (r *ShippingRateRepository) ActiveCategoryRates(ctx context.Context, categoryIDs []string) ([]models.ShippingRate, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	var rates []models.ShippingRate
	err := r.db.WithContext(ctx).
		Where("category_id IN ? AND is_active = ?", categoryIDs, true).
		Find(&rates).Error
	if err != nil {
		return nil, fmt.Errorf("find category rates: %w", err)
	}
	return rates, nil
}

// ActiveDefaultRate returns the most recently updated active default rate, or nil when none exists.
func (r *ShippingRateRepository) ActiveDefaultRate(ctx context.Context) (*models.ShippingRate, error) {
	var rates []models.ShippingRate
	err := r.db.WithContext(ctx).
		Where("category_id IS NULL AND is_active = ?", true).
		Order("updated_at DESC").Order("id").
		Limit(1).Find(&rates).Error
	if err != nil {
		return nil, fmt.Errorf("find default rate: %w", err)
	}
	if len(rates) == 0 {
		return nil, nil
	}
	return &rates[0], nil
}
