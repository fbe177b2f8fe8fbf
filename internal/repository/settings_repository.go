package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"crm-commerce/internal/models"
)

// SettingsRepository keeps one row per settings table, keyed by models.SettingsRowID.
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

func (r *SettingsRepository) GetSystem(ctx context.Context) (*models.SystemSettings, error) {
	var s models.SystemSettings
	if err := r.first(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) SaveSystem(ctx context.Context, s *models.SystemSettings) error {
	s.ID = models.SettingsRowID
	return r.upsert(ctx, s)
}

func (r *SettingsRepository) GetEmail(ctx context.Context) (*models.EmailSettings, error) {
	var s models.EmailSettings
	if err := r.first(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) SaveEmail(ctx context.Context, s *models.EmailSettings) error {
	s.ID = models.SettingsRowID
	return r.upsert(ctx, s)
}

func (r *SettingsRepository) GetPayment(ctx context.Context) (*models.PaymentSettings, error) {
	var s models.PaymentSettings
	if err := r.first(ctx, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SettingsRepository) SavePayment(ctx context.Context, s *models.PaymentSettings) error {
	s.ID = models.SettingsRowID
	return r.upsert(ctx, s)
}

func (r *SettingsRepository) first(ctx context.Context, dest any) error {
	err := r.db.WithContext(ctx).First(dest, models.SettingsRowID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("load settings: %w", err)
	}
	return nil
}

func (r *SettingsRepository) upsert(ctx context.Context, value any) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(value).Error
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
