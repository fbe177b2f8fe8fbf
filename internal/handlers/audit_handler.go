package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/models"
	"crm-commerce/internal/repository"
	"crm-commerce/internal/service"
)

type AuditHandler struct {
	store audit.Store
}

func NewAuditHandler(store audit.Store) *AuditHandler {
	return &AuditHandler{store: store}
}

type auditListQuery struct {
	pageQuery
	Entity   string `form:"entity"`
	EntityID string `form:"entityId"`
	UserID   string `form:"userId"`
	Action   string `form:"action"`
	From     string `form:"from"`
	To       string `form:"to"`
}

// GET /v1/admin/audit-logs
func (h *AuditHandler) GetLogs(c *gin.Context) {
	var q auditListQuery
	if !bindQuery(c, &q) {
		return
	}
	f := repository.AuditFilter{
		Page:     q.toPage(),
		Entity:   q.Entity,
		EntityID: q.EntityID,
		UserID:   q.UserID,
		Action:   q.Action,
	}
	var err error
	if f.From, err = parseTime(q.From, time.Time{}); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "from"})
		return
	}
	if f.To, err = parseTime(q.To, time.Time{}); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "to"})
		return
	}

	logs, total, err := h.store.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	if logs == nil {
		logs = []models.AuditLog{}
	}
	page := f.Page.Normalize()
	c.JSON(http.StatusOK, service.PageResult[models.AuditLog]{
		Data:       logs,
		Page:       page.Page,
		Limit:      page.Limit,
		TotalPages: page.TotalPages(total),
		Total:      total,
	})
}
