package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a sellable catalog entry. Stock is decremented by order placement.
type Product struct {
	Base
	SKU         string          `gorm:"size:64;not null;uniqueIndex" json:"sku"`
	Name        string          `gorm:"size:200;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock       int             `gorm:"not null" json:"stock"`
	IsActive    bool            `gorm:"not null;index" json:"isActive"`
	CategoryID  *string         `gorm:"size:36;index" json:"categoryId,omitempty"`
	Category    *Category       `json:"category,omitempty"`
	CourseID    *string         `gorm:"size:36;index" json:"courseId,omitempty"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ProductUpdate holds the fields an admin may patch.
type ProductUpdate struct {
	SKU         *string          `json:"sku,omitempty" binding:"omitempty,notblank,max=64"`
	Name        *string          `json:"name,omitempty" binding:"omitempty,notblank,max=200"`
	Description *string          `json:"description,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty" binding:"omitempty,gte=0"`
	Stock       *int             `json:"stock,omitempty" binding:"omitempty,gte=0"`
	IsActive    *bool            `json:"isActive,omitempty"`
	CategoryID  *string          `json:"categoryId,omitempty"`
	CourseID    *string          `json:"courseId,omitempty"`
}

// Columns converts the patch into a column map for gorm Updates.
func (u ProductUpdate) Columns() map[string]any {
	cols := map[string]any{}
	if u.SKU != nil {
		cols["sku"] = *u.SKU
	}
	if u.Name != nil {
		cols["name"] = *u.Name
	}
	if u.Description != nil {
		cols["description"] = *u.Description
	}
	if u.Price != nil {
		cols["price"] = *u.Price
	}
	if u.Stock != nil {
		cols["stock"] = *u.Stock
	}
	if u.IsActive != nil {
		cols["is_active"] = *u.IsActive
	}
	if u.CategoryID != nil {
		cols["category_id"] = nullable(*u.CategoryID)
	}
	if u.CourseID != nil {
		cols["course_id"] = nullable(*u.CourseID)
	}
	return cols
}

// nullable maps an empty string to NULL so a reference can be cleared.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
