package models

import "github.com/shopspring/decimal"

type CategoryType string

const (
	CategoryPhysical CategoryType = "PHYSICAL"
	CategoryDigital  CategoryType = "DIGITAL"
	CategoryCourse   CategoryType = "COURSE"
)

type Category struct {
	Base
	Name         string        `gorm:"size:100;not null;uniqueIndex" json:"name"`
	Type         CategoryType  `gorm:"size:20;not null" json:"type"`
	ShippingRate *ShippingRate `gorm:"foreignKey:CategoryID" json:"shippingRate,omitempty"`
}

// ShippingRate is either bound to one category or, with a nil CategoryID, the default rate.
type ShippingRate struct {
	Base
	Name                  string              `gorm:"size:100" json:"name"`
	CategoryID            *string             `gorm:"size:36;uniqueIndex" json:"categoryId"`
	ShippingFee           decimal.Decimal     `gorm:"type:decimal(12,2);not null" json:"shippingFee"`
	FreeShippingThreshold decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"freeShippingThreshold"`
	IsActive              bool                `gorm:"not null;index" json:"isActive"`
}

// IsDefault reports whether the rate applies to carts without a category rate.
func (r ShippingRate) IsDefault() bool {
	return r.CategoryID == nil
}
