package models

// CartItem is one product line in a customer's cart. (CustomerID, ProductID) is unique.
type CartItem struct {
	Base
	CustomerID string   `gorm:"size:36;not null;uniqueIndex:idx_cart_customer_product" json:"customerId"`
	ProductID  string   `gorm:"size:36;not null;uniqueIndex:idx_cart_customer_product" json:"productId"`
	Quantity   int      `gorm:"not null" json:"quantity"`
	Product    *Product `json:"product,omitempty"`
}
