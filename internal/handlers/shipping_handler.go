package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"crm-commerce/internal/service"
	"crm-commerce/internal/shipping"
)

type ShippingRateHandler struct {
	rates *service.ShippingRateService
}

func NewShippingRateHandler(rates *service.ShippingRateService) *ShippingRateHandler {
	return &ShippingRateHandler{rates: rates}
}

type quoteRequest struct {
	Items []struct {
		CategoryID *string         `json:"categoryId"`
		Price      decimal.Decimal `json:"price" binding:"gte=0"`
		Quantity   int             `json:"quantity" binding:"min=1"`
	} `json:"items" binding:"dive"`
}

// GET /v1/admin/shipping-rates
func (h *ShippingRateHandler) GetRates(c *gin.Context) {
	rates, err := h.rates.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rates})
}

// POST /v1/admin/shipping-rates
func (h *ShippingRateHandler) CreateRate(c *gin.Context) {
	var in service.ShippingRateInput
	if !bindJSON(c, &in) {
		return
	}
	rate, err := h.rates.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rate)
}

// PATCH /v1/admin/shipping-rates/:id
func (h *ShippingRateHandler) UpdateRate(c *gin.Context) {
	var in service.ShippingRateUpdate
	if !bindJSON(c, &in) {
		return
	}
	rate, err := h.rates.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rate)
}

// DELETE /v1/admin/shipping-rates/:id
func (h *ShippingRateHandler) DeleteRate(c *gin.Context) {
	if err := h.rates.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "shipping rate deleted"})
}

// POST /v1/admin/shipping-rates/quote
// Previews the fee the current rates would charge for the given lines.
func (h *ShippingRateHandler) PreviewQuote(c *gin.Context) {
	var req quoteRequest
	if !bindJSON(c, &req) {
		return
	}
	lines := make([]shipping.Line, 0, len(req.Items))
	for _, item := range req.Items {
		lines = append(lines, shipping.Line{CategoryID: item.CategoryID, Price: item.Price, Quantity: item.Quantity})
	}
	quote, err := h.rates.Quote(c.Request.Context(), lines)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}
