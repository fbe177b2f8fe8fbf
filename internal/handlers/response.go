package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"crm-commerce/internal/auth"
	"crm-commerce/internal/middleware"
	"crm-commerce/internal/repository"
	"crm-commerce/internal/service"
)

type ErrorResponse struct {
	Error  string       `json:"error"`
	Field  string       `json:"field,omitempty"`
	Fields []FieldError `json:"fields,omitempty"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Message string `json:"message"`
}

// respondError maps service errors onto status codes. Anything unexpected is
// logged and answered with a generic 500.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: verr.Message, Field: verr.Field})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	default:
		_ = c.Error(err)
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("request failed")
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error"})
	}
}

// bindJSON decodes and validates the body, writing a 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return false
	}
	return true
}

func bindQuery(c *gin.Context, dst any) bool {
	if err := c.ShouldBindQuery(dst); err != nil {
		c.JSON(http.StatusBadRequest, bindingError(err))
		return false
	}
	return true
}

func bindingError(err error) ErrorResponse {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		resp := ErrorResponse{Error: "validation failed"}
		for _, fe := range verrs {
			resp.Fields = append(resp.Fields, FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
		}
		return resp
	}
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		return ErrorResponse{Error: "request body is required"}
	case errors.As(err, &syntax), errors.Is(err, io.ErrUnexpectedEOF):
		return ErrorResponse{Error: "malformed JSON"}
	case errors.As(err, &typeErr):
		return ErrorResponse{Error: fmt.Sprintf("invalid value for %s", typeErr.Field), Field: typeErr.Field}
	}
	return ErrorResponse{Error: "invalid request"}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "gte", "min":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	case "len":
		return "must have length " + fe.Param()
	case "oneof":
		return "must be one of " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	}
	return "is invalid"
}

// pageQuery is the pagination query shared by list endpoints.
type pageQuery struct {
	Page     int `form:"page"`
	Limit    int `form:"limit"`
	PageSize int `form:"pageSize"`
}

func (q pageQuery) toPage() repository.Page {
	limit := q.Limit
	if limit == 0 {
		limit = q.PageSize
	}
	return repository.Page{Page: q.Page, Limit: limit}.Normalize()
}

func principal(c *gin.Context) auth.Principal {
	p, _ := middleware.PrincipalFrom(c)
	return p
}
