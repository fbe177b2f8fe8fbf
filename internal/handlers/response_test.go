package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-commerce/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

func TestRespondError_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		msg  string
	}{
		{"validation", &service.ValidationError{Field: "cart", Message: "cart is empty"}, http.StatusBadRequest, "cart is empty"},
		{"not found", fmt.Errorf("order: %w", service.ErrNotFound), http.StatusNotFound, ""},
		{"forbidden", service.ErrForbidden, http.StatusForbidden, "forbidden"},
		{"transition", fmt.Errorf("x: %w", service.ErrInvalidTransition), http.StatusConflict, ""},
		{"conflict", service.ErrConflict, http.StatusConflict, ""},
		{"unexpected", errors.New("connection refused"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			respondError(c, tt.err)

			assert.Equal(t, tt.code, w.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.msg != "" {
				assert.Equal(t, tt.msg, resp.Error)
			}
			assert.NotContains(t, resp.Error, "connection refused")
		})
	}
}

type priceRequest struct {
	Name  string          `json:"name" binding:"required,notblank"`
	Price decimal.Decimal `json:"price" binding:"gte=0"`
}

func bind(t *testing.T, body string) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	var req priceRequest
	return w, bindJSON(c, &req)
}

func TestBindJSON(t *testing.T) {
	_, ok := bind(t, `{"name":"Mug","price":"12.50"}`)
	assert.True(t, ok)

	w, ok := bind(t, `{"name":"  ","price":"-1"}`)
	require.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "price", Message: "must be at least 0"},
	}, resp.Fields)

	w, ok = bind(t, ``)
	require.False(t, ok)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "request body is required", resp.Error)
}

func TestPageQuery_PageSizeAlias(t *testing.T) {
	assert.Equal(t, 15, pageQuery{PageSize: 15}.toPage().Limit)
	assert.Equal(t, 5, pageQuery{Limit: 5, PageSize: 15}.toPage().Limit)
	assert.Equal(t, 1, pageQuery{}.toPage().Page)
}

func TestParseTime(t *testing.T) {
	fallback := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := parseTime("", fallback)
	require.NoError(t, err)
	assert.Equal(t, fallback, got)

	got, err = parseTime("2026-03-04", fallback)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), got)

	got, err = parseTime("2026-03-04T10:00:00Z", fallback)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Hour())

	_, err = parseTime("last week", fallback)
	assert.Error(t, err)
}
