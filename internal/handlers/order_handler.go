package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crm-commerce/internal/models"
	"crm-commerce/internal/service"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderListQuery struct {
	pageQuery
	Search string `form:"search"`
	Status string `form:"status"`
}

type updateStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required,oneof=PENDING SHIPPED BACKORDERED CANCELLED COMPLETED"`
	Reason string             `json:"reason" binding:"max=1000"`
}

type orderActionRequest struct {
	Action string `json:"action" binding:"required,oneof=cancel"`
	Reason string `json:"reason" binding:"max=1000"`
}

type cancelRequest struct {
	Reason string `json:"reason" binding:"max=1000"`
}

// GET /v1/orders
// Customers get their own orders; admins need orders.view and see everyone's.
func (h *OrderHandler) GetOrders(c *gin.Context) {
	var q orderListQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.orders.ListOrders(c.Request.Context(), principal(c), service.OrderListInput{
		Page:   q.toPage(),
		Status: models.OrderStatus(q.Status),
		Search: q.Search,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// POST /v1/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var in service.PlaceOrderInput
	if !bindJSON(c, &in) {
		return
	}
	order, err := h.orders.PlaceOrder(c.Request.Context(), principal(c), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

// GET /v1/orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	order, err := h.orders.GetOrder(c.Request.Context(), principal(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// PUT /v1/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if !bindJSON(c, &req) {
		return
	}
	order, err := h.orders.UpdateStatus(c.Request.Context(), principal(c), c.Param("id"), req.Status, req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// PUT /v1/orders/:id
// The only customer action is {"action":"cancel"}.
func (h *OrderHandler) OrderAction(c *gin.Context) {
	var req orderActionRequest
	if !bindJSON(c, &req) {
		return
	}
	h.cancel(c, req.Reason)
}

// DELETE /v1/orders/:id
// Same soft-cancel as PUT {"action":"cancel"}; the order row is kept. The body is optional.
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	var req cancelRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}
	h.cancel(c, req.Reason)
}

func (h *OrderHandler) cancel(c *gin.Context, reason string) {
	order, err := h.orders.CancelByCustomer(c.Request.Context(), principal(c), c.Param("id"), reason)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}
