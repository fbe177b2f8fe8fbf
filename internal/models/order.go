package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderPending     OrderStatus = "PENDING"
	OrderShipped     OrderStatus = "SHIPPED"
	OrderBackordered OrderStatus = "BACKORDERED"
	OrderCancelled   OrderStatus = "CANCELLED"
	OrderCompleted   OrderStatus = "COMPLETED"
)

type CancelActor string

const (
	CancelledByAdmin    CancelActor = "ADMIN"
	CancelledByCustomer CancelActor = "CUSTOMER"
)

// Order totals and delivery details are fixed at creation; only the status fields change afterwards.
type Order struct {
	Base
	CustomerID      string          `gorm:"size:36;not null;index" json:"customerId"`
	Customer        *Customer       `json:"customer,omitempty"`
	OrderNumber     string          `gorm:"size:64;not null;uniqueIndex" json:"orderNumber"`
	SubtotalAmount  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotalAmount"`
	ShippingFee     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shippingFee"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"totalAmount"`
	Status          OrderStatus     `gorm:"size:20;not null;index" json:"status"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shippingAddress"`
	RecipientName   string          `gorm:"size:200;not null" json:"recipientName"`
	ContactPhone    string          `gorm:"size:50" json:"contactPhone,omitempty"`
	Notes           string          `gorm:"type:text" json:"notes,omitempty"`
	CancelledAt     *time.Time      `json:"cancelledAt,omitempty"`
	CancelledBy     *CancelActor    `gorm:"size:20" json:"cancelledBy,omitempty"`
	CancelReason    *string         `gorm:"type:text" json:"cancelReason,omitempty"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// OrderItem is a snapshot of the product at purchase time.
type OrderItem struct {
	Base
	OrderID     string          `gorm:"size:36;not null;index" json:"orderId"`
	ProductID   string          `gorm:"size:36;not null;index" json:"productId"`
	ProductName string          `gorm:"size:200;not null" json:"productName"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity    int             `gorm:"not null" json:"quantity"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Product     *Product        `json:"product,omitempty"`
}
