package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"crm-commerce/internal/models"
	"crm-commerce/internal/repository"
	"crm-commerce/internal/shipping"
)

type CartLine struct {
	ProductID string          `json:"productId"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Stock     int             `json:"stock"`
	Available bool            `json:"available"`
}

// CartView is the cart with a shipping quote over its available lines.
type CartView struct {
	Items []CartLine     `json:"items"`
	Quote shipping.Quote `json:"quote"`
}

type CartService struct {
	store *repository.Store
}

func NewCartService(store *repository.Store) *CartService {
	return &CartService{store: store}
}

// View loads the cart with availability flags and a shipping quote.
func (s *CartService) View(ctx context.Context, customerID string) (*CartView, error) {
	items, err := s.store.Carts.Items(ctx, customerID)
	if err != nil {
		return nil, err
	}

	view := &CartView{Items: make([]CartLine, 0, len(items))}
	var lines []shipping.Line
	for _, item := range items {
		line := CartLine{ProductID: item.ProductID, Quantity: item.Quantity}
		if p := item.Product; p != nil {
			line.SKU = p.SKU
			line.Name = p.Name
			line.Price = p.Price
			line.Stock = p.Stock
			line.Subtotal = p.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
			line.Available = p.IsActive && !p.DeletedAt.Valid && item.Quantity <= p.Stock
		}
		if line.Available {
			lines = append(lines, shipping.Line{
				ProductID:  item.ProductID,
				CategoryID: item.Product.CategoryID,
				Price:      item.Product.Price,
				Quantity:   item.Quantity,
			})
		}
		view.Items = append(view.Items, line)
	}

	view.Quote, err = shipping.Calculate(ctx, lines, s.store.ShippingRates)
	if err != nil {
		return nil, err
	}
	return view, nil
}

// AddItem adds quantity of a product, accumulating onto an existing line.
func (s *CartService) AddItem(ctx context.Context, customerID, productID string, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, invalid("quantity", "quantity must be at least 1")
	}
	product, err := s.purchasable(ctx, productID)
	if err != nil {
		return nil, err
	}

	// the stock check runs on the accumulated quantity inside the transaction,
	// so a rejected add leaves the line as it was
	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		total, err := tx.Carts.AddQuantity(ctx, customerID, productID, quantity)
		if err != nil {
			return err
		}
		if total > product.Stock {
			return invalid("quantity", "only %d of %q in stock", product.Stock, product.Name)
		}
		return nil
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, translate(err, "cart item")
	}
	return s.View(ctx, customerID)
}

// SetQuantity replaces the quantity of an existing line.
func (s *CartService) SetQuantity(ctx context.Context, customerID, productID string, quantity int) (*CartView, error) {
	if quantity < 1 {
		return nil, invalid("quantity", "quantity must be at least 1")
	}
	item, err := s.store.Carts.Find(ctx, customerID, productID)
	if err != nil {
		return nil, translate(err, "cart item")
	}
	product, err := s.purchasable(ctx, productID)
	if err != nil {
		return nil, err
	}
	if quantity > product.Stock {
		return nil, invalid("quantity", "only %d of %q in stock", product.Stock, product.Name)
	}

	item.Quantity = quantity
	if err := s.store.Carts.Save(ctx, item); err != nil {
		return nil, err
	}
	return s.View(ctx, customerID)
}

// RemoveItem deletes one line; a missing line is ErrNotFound.
func (s *CartService) RemoveItem(ctx context.Context, customerID, productID string) error {
	return translate(s.store.Carts.Delete(ctx, customerID, productID), "cart item")
}

// Clear empties the customer's cart. Clearing an empty cart is not an error.
func (s *CartService) Clear(ctx context.Context, customerID string) error {
	_, err := s.store.Carts.Clear(ctx, customerID)
	return err
}

func (s *CartService) purchasable(ctx context.Context, productID string) (*models.Product, error) {
	product, err := s.store.Products.FindByID(ctx, productID)
	if err != nil {
		return nil, translate(err, "product")
	}
	if !product.IsActive {
		return nil, invalid("productId", "product %q is not available", product.Name)
	}
	return product, nil
}
