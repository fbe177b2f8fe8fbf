package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	nanoid "github.com/jaevor/go-nanoid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/auth"
	"crm-commerce/internal/models"
	"crm-commerce/internal/repository"
	"crm-commerce/internal/shipping"
)

const orderNumberAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// PlaceOrderInput is the delivery information captured at checkout.
type PlaceOrderInput struct {
	ShippingAddress string `json:"shippingAddress" binding:"required,notblank,max=1000"`
	RecipientName   string `json:"recipientName" binding:"required,notblank,max=200"`
	ContactPhone    string `json:"contactPhone" binding:"max=50"`
	Notes           string `json:"notes" binding:"max=2000"`
}

type OrderListInput struct {
	repository.Page
	Status models.OrderStatus
	Search string
}

type OrderService struct {
	store           *repository.Store
	audit           audit.Recorder
	restockOnCancel bool
	suffix          func() string
	now             func() time.Time
}

func NewOrderService(store *repository.Store, recorder audit.Recorder, restockOnCancel bool) (*OrderService, error) {
	gen, err := nanoid.CustomASCII(orderNumberAlphabet, 8)
	if err != nil {
		return nil, fmt.Errorf("order number generator: %w", err)
	}
	return &OrderService{
		store:           store,
		audit:           recorder,
		restockOnCancel: restockOnCancel,
		suffix:          gen,
		now:             time.Now,
	}, nil
}

func (s *OrderService) orderNumber() string {
	return fmt.Sprintf("ORDER-%d-%s", s.now().UnixMilli(), s.suffix())
}

// PlaceOrder turns the customer's cart into a PENDING order. Every check runs
// before the transaction; inside it the stock decrement is conditional, so a
// concurrent purchase of the last unit rolls this order back instead of
// overselling.
func (s *OrderService) PlaceOrder(ctx context.Context, p auth.Principal, in PlaceOrderInput) (*models.Order, error) {
	if !p.IsCustomer() {
		return nil, fmt.Errorf("only customers can place orders: %w", ErrForbidden)
	}

	in.ShippingAddress = strings.TrimSpace(in.ShippingAddress)
	in.RecipientName = strings.TrimSpace(in.RecipientName)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.ShippingAddress == "" {
		return nil, invalid("shippingAddress", "shipping address is required")
	}
	if in.RecipientName == "" {
		return nil, invalid("recipientName", "recipient name is required")
	}

	items, err := s.store.Carts.Items(ctx, p.UserID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, invalid("cart", "cart is empty")
	}

	lines := make([]shipping.Line, 0, len(items))
	for _, item := range items {
		product := item.Product
		if product == nil || product.DeletedAt.Valid || !product.IsActive {
			return nil, invalid("cart", "product %q is no longer available", productName(item))
		}
		if item.Quantity > product.Stock {
			return nil, invalid("cart", "insufficient stock for %q: requested %d, available %d",
				product.Name, item.Quantity, product.Stock)
		}
		lines = append(lines, shipping.Line{
			ProductID:  product.ID,
			CategoryID: product.CategoryID,
			Price:      product.Price,
			Quantity:   item.Quantity,
		})
	}

	quote, err := shipping.Calculate(ctx, lines, s.store.ShippingRates)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		CustomerID:      p.UserID,
		OrderNumber:     s.orderNumber(),
		SubtotalAmount:  quote.SubtotalAmount,
		ShippingFee:     quote.ShippingFee,
		TotalAmount:     quote.TotalAmount,
		Status:          models.OrderPending,
		ShippingAddress: in.ShippingAddress,
		RecipientName:   in.RecipientName,
		ContactPhone:    in.ContactPhone,
		Notes:           in.Notes,
	}
	for _, item := range items {
		order.Items = append(order.Items, models.OrderItem{
			ProductID:   item.ProductID,
			ProductName: item.Product.Name,
			Price:       item.Product.Price,
			Quantity:    item.Quantity,
			Subtotal:    item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))),
		})
	}

	err = s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Orders.Create(ctx, order); err != nil {
			return err
		}
		for _, item := range items {
			if err := tx.Products.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrInsufficientStock) {
					return invalid("cart", "insufficient stock for %q", item.Product.Name)
				}
				return err
			}
			if item.Product.CourseID != nil {
				_, err := tx.Enrollments.EnrollIfAbsent(ctx, &models.Enrollment{
					CustomerID: p.UserID,
					CourseID:   *item.Product.CourseID,
					OrderID:    &order.ID,
					EnrolledAt: s.now(),
				})
				if err != nil {
					return err
				}
			}
		}
		_, err := tx.Carts.Clear(ctx, p.UserID)
		return err
	})
	if err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, verr
		}
		return nil, fmt.Errorf("place order: %w", translate(err, "order"))
	}

	zerolog.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("order_number", order.OrderNumber).
		Str("total", order.TotalAmount.String()).
		Msg("order placed")

	s.audit.Record(ctx, audit.Entry{
		Action:   audit.ActionPlaceOrder,
		Entity:   "Order",
		EntityID: order.ID,
		New: map[string]any{
			"orderNumber": order.OrderNumber,
			"totalAmount": order.TotalAmount,
			"items":       len(order.Items),
		},
	})

	created, err := s.store.Orders.FindByID(ctx, order.ID)
	if err != nil {
		// the order is committed; fall back to what was written
		zerolog.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).Msg("reload placed order")
		return order, nil
	}
	return created, nil
}

func productName(item models.CartItem) string {
	if item.Product != nil {
		return item.Product.Name
	}
	return item.ProductID
}

// GetOrder returns an order visible to p. Customers only see their own orders.
func (s *OrderService) GetOrder(ctx context.Context, p auth.Principal, id string) (*models.Order, error) {
	if p.IsAdmin() && !p.HasPermission(auth.PermOrdersView) {
		return nil, ErrForbidden
	}
	order, err := s.store.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "order")
	}
	if p.IsCustomer() && order.CustomerID != p.UserID {
		return nil, fmt.Errorf("order: %w", ErrNotFound)
	}
	return order, nil
}

// ListOrders pages through the orders p may see. Customers see their own; admins need orders.view.
func (s *OrderService) ListOrders(ctx context.Context, p auth.Principal, in OrderListInput) (PageResult[models.Order], error) {
	f := repository.OrderFilter{Page: in.Page.Normalize(), Status: in.Status, Search: strings.TrimSpace(in.Search)}
	switch {
	case p.IsCustomer():
		f.CustomerID = p.UserID
	case !p.HasPermission(auth.PermOrdersView):
		return PageResult[models.Order]{}, ErrForbidden
	}
	if f.Status != "" && !validStatus(f.Status) {
		return PageResult[models.Order]{}, invalid("status", "unknown status %q", f.Status)
	}

	orders, total, err := s.store.Orders.List(ctx, f)
	if err != nil {
		return PageResult[models.Order]{}, err
	}
	return newPageResult(orders, f.Page, total), nil
}

// UpdateStatus applies an admin transition. reason is kept only when cancelling.
func (s *OrderService) UpdateStatus(ctx context.Context, p auth.Principal, id string, to models.OrderStatus, reason string) (*models.Order, error) {
	if !p.HasPermission(auth.PermOrdersManage) {
		return nil, ErrForbidden
	}
	if !validStatus(to) {
		return nil, invalid("status", "unknown status %q", to)
	}

	order, err := s.store.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "order")
	}
	if !CanTransition(order.Status, to) {
		return nil, fmt.Errorf("%s to %s: %w", order.Status, to, ErrInvalidTransition)
	}

	cols := map[string]any{"status": to}
	if to == models.OrderCancelled {
		addCancelColumns(cols, models.CancelledByAdmin, reason, s.now())
	}
	if err := s.applyStatus(ctx, order, cols, to == models.OrderCancelled); err != nil {
		return nil, err
	}

	action := audit.ActionStatusChange
	if to == models.OrderCancelled {
		action = audit.ActionCancel
	}
	s.audit.Record(ctx, audit.Entry{
		Action:   action,
		Entity:   "Order",
		EntityID: order.ID,
		Old:      map[string]any{"status": order.Status},
		New:      statusPayload(cols),
	})

	return s.store.Orders.FindByID(ctx, id)
}

// CancelByCustomer cancels one of the caller's own orders. Rows are never removed.
func (s *OrderService) CancelByCustomer(ctx context.Context, p auth.Principal, id, reason string) (*models.Order, error) {
	if !p.IsCustomer() {
		return nil, ErrForbidden
	}
	order, err := s.store.Orders.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "order")
	}
	if order.CustomerID != p.UserID {
		return nil, fmt.Errorf("order: %w", ErrNotFound)
	}
	if !CustomerCanCancel(order.Status) {
		return nil, fmt.Errorf("order is %s and can no longer be cancelled: %w", order.Status, ErrInvalidTransition)
	}

	cols := map[string]any{"status": models.OrderCancelled}
	addCancelColumns(cols, models.CancelledByCustomer, reason, s.now())
	if err := s.applyStatus(ctx, order, cols, true); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, audit.Entry{
		Action:   audit.ActionCancel,
		Entity:   "Order",
		EntityID: order.ID,
		Old:      map[string]any{"status": order.Status},
		New:      statusPayload(cols),
	})

	return s.store.Orders.FindByID(ctx, id)
}

func addCancelColumns(cols map[string]any, by models.CancelActor, reason string, at time.Time) {
	cols["cancelled_by"] = by
	cols["cancelled_at"] = at
	if reason = strings.TrimSpace(reason); reason != "" {
		cols["cancel_reason"] = reason
	}
}

func statusPayload(cols map[string]any) map[string]any {
	out := map[string]any{"status": cols["status"]}
	if by, ok := cols["cancelled_by"]; ok {
		out["cancelledBy"] = by
	}
	if reason, ok := cols["cancel_reason"]; ok {
		out["cancelReason"] = reason
	}
	return out
}

// applyStatus writes cols only if the order still has the status it was read
// with, restocking in the same transaction when configured.
func (s *OrderService) applyStatus(ctx context.Context, order *models.Order, cols map[string]any, cancelling bool) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Orders.UpdateStatus(ctx, order.ID, order.Status, cols); err != nil {
			return err
		}
		if !cancelling || !s.restockOnCancel {
			return nil
		}
		for _, item := range order.Items {
			if err := tx.Products.IncrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				if errors.Is(err, repository.ErrNotFound) {
					continue
				}
				return err
			}
		}
		return nil
	})
	if errors.Is(err, repository.ErrStaleStatus) {
		return fmt.Errorf("order status changed concurrently: %w", ErrInvalidTransition)
	}
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	return nil
}
