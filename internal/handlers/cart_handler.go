package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crm-commerce/internal/service"
)

type CartHandler struct {
	carts *service.CartService
}

func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type addCartItemRequest struct {
	ProductID string `json:"productId" binding:"required,notblank"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// GET /v1/cart
func (h *CartHandler) GetCart(c *gin.Context) {
	view, err := h.carts.View(c.Request.Context(), principal(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /v1/cart/items
func (h *CartHandler) AddItem(c *gin.Context) {
	var req addCartItemRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.carts.AddItem(c.Request.Context(), principal(c).UserID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PUT /v1/cart/items/:productId
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req setQuantityRequest
	if !bindJSON(c, &req) {
		return
	}
	view, err := h.carts.SetQuantity(c.Request.Context(), principal(c).UserID, c.Param("productId"), req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /v1/cart/items/:productId
func (h *CartHandler) RemoveItem(c *gin.Context) {
	if err := h.carts.RemoveItem(c.Request.Context(), principal(c).UserID, c.Param("productId")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "item removed"})
}

// DELETE /v1/cart
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.carts.Clear(c.Request.Context(), principal(c).UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "cart cleared"})
}
