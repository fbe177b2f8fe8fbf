package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crm-commerce/internal/models"
	"crm-commerce/internal/service"
)

// SettingsHandler exposes the settings store. Secrets never leave the server unmasked.
type SettingsHandler struct {
	settings *service.SettingsService
}

func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// GET /v1/settings/system
func (h *SettingsHandler) GetSystem(c *gin.Context) {
	s, err := h.settings.System(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// PUT /v1/admin/settings/system
func (h *SettingsHandler) PutSystem(c *gin.Context) {
	var in models.SystemSettings
	if !bindJSON(c, &in) {
		return
	}
	s, err := h.settings.SaveSystem(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// GET /v1/admin/settings/email
func (h *SettingsHandler) GetEmail(c *gin.Context) {
	s, err := h.settings.Email(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.MaskEmail(s))
}

// PUT /v1/admin/settings/email
func (h *SettingsHandler) PutEmail(c *gin.Context) {
	var in models.EmailSettings
	if !bindJSON(c, &in) {
		return
	}
	s, err := h.settings.SaveEmail(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.MaskEmail(s))
}

// GET /v1/admin/settings/payment
func (h *SettingsHandler) GetPayment(c *gin.Context) {
	s, err := h.settings.Payment(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.MaskPayment(s))
}

// PUT /v1/admin/settings/payment
func (h *SettingsHandler) PutPayment(c *gin.Context) {
	var in models.PaymentSettings
	if !bindJSON(c, &in) {
		return
	}
	s, err := h.settings.SavePayment(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, service.MaskPayment(s))
}
