package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"crm-commerce/internal/service"
)

type ReportHandler struct {
	reports *service.ReportService
	now     func() time.Time
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports, now: time.Now}
}

// GET /v1/admin/reports/sales?from&to
// Defaults to the last 30 days. Dates are RFC 3339 or YYYY-MM-DD (UTC).
func (h *ReportHandler) GetSales(c *gin.Context) {
	now := h.now().UTC()
	to, err := parseTime(c.Query("to"), now)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "to"})
		return
	}
	from, err := parseTime(c.Query("from"), to.AddDate(0, 0, -30))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Field: "from"})
		return
	}

	report, err := h.reports.Sales(c.Request.Context(), from, to)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func parseTime(v string, fallback time.Time) (time.Time, error) {
	if v == "" {
		return fallback, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.DateOnly, v); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q", v)
}
