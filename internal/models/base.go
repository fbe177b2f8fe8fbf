package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base carries the identity and timestamps shared by every table.
type Base struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate assigns a UUID when the caller did not.
func (b *Base) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// All lists every model managed by AutoMigrate.
func All() []any {
	return []any{
		&Category{},
		&ShippingRate{},
		&Course{},
		&Product{},
		&Tag{},
		&Customer{},
		&CartItem{},
		&Order{},
		&OrderItem{},
		&Enrollment{},
		&AuditLog{},
		&SystemSettings{},
		&EmailSettings{},
		&PaymentSettings{},
	}
}
