package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/models"
	"crm-commerce/internal/repository"
	"crm-commerce/internal/shipping"
)

// ShippingRateInput creates a rate. A nil or empty CategoryID makes it the default rate.
type ShippingRateInput struct {
	Name                  string           `json:"name" binding:"max=100"`
	CategoryID            *string          `json:"categoryId"`
	ShippingFee           decimal.Decimal  `json:"shippingFee" binding:"gte=0"`
	FreeShippingThreshold *decimal.Decimal `json:"freeShippingThreshold" binding:"omitempty,gte=0"`
	IsActive              *bool            `json:"isActive"`
}

type ShippingRateUpdate struct {
	Name                  *string          `json:"name" binding:"omitempty,max=100"`
	ShippingFee           *decimal.Decimal `json:"shippingFee" binding:"omitempty,gte=0"`
	FreeShippingThreshold *decimal.Decimal `json:"freeShippingThreshold" binding:"omitempty,gte=0"`
	ClearThreshold        bool             `json:"clearThreshold"`
	IsActive              *bool            `json:"isActive"`
}

// ShippingRateService keeps at most one active default rate.
type ShippingRateService struct {
	store *repository.Store
	audit audit.Recorder
}

func NewShippingRateService(store *repository.Store, recorder audit.Recorder) *ShippingRateService {
	return &ShippingRateService{store: store, audit: recorder}
}

func (s *ShippingRateService) List(ctx context.Context) ([]models.ShippingRate, error) {
	return s.store.ShippingRates.FindAll(ctx)
}

func (s *ShippingRateService) Create(ctx context.Context, in ShippingRateInput) (*models.ShippingRate, error) {
	if in.ShippingFee.IsNegative() {
		return nil, invalid("shippingFee", "fee must not be negative")
	}
	rate := &models.ShippingRate{
		Name:        strings.TrimSpace(in.Name),
		CategoryID:  emptyToNil(in.CategoryID),
		ShippingFee: in.ShippingFee,
		IsActive:    in.IsActive == nil || *in.IsActive,
	}
	if in.FreeShippingThreshold != nil {
		rate.FreeShippingThreshold = decimal.NewNullDecimal(*in.FreeShippingThreshold)
	}
	if rate.CategoryID != nil {
		if _, err := s.store.Categories.FindByID(ctx, *rate.CategoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, invalid("categoryId", "category %q does not exist", *rate.CategoryID)
			}
			return nil, err
		}
	}

	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.ShippingRates.Create(ctx, rate); err != nil {
			return err
		}
		if rate.IsDefault() && rate.IsActive {
			return tx.ShippingRates.DeactivateOtherDefaults(ctx, rate.ID)
		}
		return nil
	})
	if err != nil {
		return nil, translate(err, "shipping rate for category")
	}

	s.audit.Record(ctx, audit.Entry{Action: audit.ActionCreate, Entity: "ShippingRate", EntityID: rate.ID, New: rate})
	return rate, nil
}

func (s *ShippingRateService) Update(ctx context.Context, id string, in ShippingRateUpdate) (*models.ShippingRate, error) {
	var before, after models.ShippingRate
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		rate, err := tx.ShippingRates.FindByID(ctx, id)
		if err != nil {
			return err
		}
		before = *rate

		if in.Name != nil {
			rate.Name = strings.TrimSpace(*in.Name)
		}
		if in.ShippingFee != nil {
			rate.ShippingFee = *in.ShippingFee
		}
		if in.ClearThreshold {
			rate.FreeShippingThreshold = decimal.NullDecimal{}
		} else if in.FreeShippingThreshold != nil {
			rate.FreeShippingThreshold = decimal.NewNullDecimal(*in.FreeShippingThreshold)
		}
		if in.IsActive != nil {
			rate.IsActive = *in.IsActive
		}

		if err := tx.ShippingRates.Save(ctx, rate); err != nil {
			return err
		}
		if rate.IsDefault() && rate.IsActive {
			if err := tx.ShippingRates.DeactivateOtherDefaults(ctx, rate.ID); err != nil {
				return err
			}
		}
		after = *rate
		return nil
	})
	if err != nil {
		return nil, translate(err, "shipping rate")
	}

	s.audit.Record(ctx, audit.Entry{Action: audit.ActionUpdate, Entity: "ShippingRate", EntityID: id, Old: before, New: after})
	return &after, nil
}

func (s *ShippingRateService) Delete(ctx context.Context, id string) error {
	if err := s.store.ShippingRates.Delete(ctx, id); err != nil {
		return translate(err, "shipping rate")
	}
	s.audit.Record(ctx, audit.Entry{Action: audit.ActionDelete, Entity: "ShippingRate", EntityID: id})
	return nil
}

// Quote prices arbitrary lines against the current configuration.
func (s *ShippingRateService) Quote(ctx context.Context, lines []shipping.Line) (shipping.Quote, error) {
	return shipping.Calculate(ctx, lines, s.store.ShippingRates)
}
