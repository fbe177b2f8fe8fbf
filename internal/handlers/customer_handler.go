package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crm-commerce/internal/repository"
	"crm-commerce/internal/service"
)

type CustomerHandler struct {
	customers *service.CustomerService
}

func NewCustomerHandler(customers *service.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

type customerListQuery struct {
	pageQuery
	Search string `form:"search"`
	TagID  string `form:"tagId"`
}

type replaceTagsRequest struct {
	TagIDs []string `json:"tagIds" binding:"max=100"`
}

type recipientsRequest struct {
	TagIDs   []string `json:"tagIds" binding:"max=100"`
	MatchAll bool     `json:"matchAll"`
}

// GET /v1/admin/customers
func (h *CustomerHandler) GetCustomers(c *gin.Context) {
	var q customerListQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.customers.List(c.Request.Context(), repository.CustomerFilter{
		Page:   q.toPage(),
		Search: q.Search,
		TagID:  q.TagID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// POST /v1/admin/customers
func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var in service.CustomerInput
	if !bindJSON(c, &in) {
		return
	}
	customer, err := h.customers.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// GET /v1/admin/customers/:id
func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	customer, err := h.customers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// PATCH /v1/admin/customers/:id
func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var in service.CustomerUpdate
	if !bindJSON(c, &in) {
		return
	}
	customer, err := h.customers.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// PUT /v1/admin/customers/:id/tags
func (h *CustomerHandler) ReplaceTags(c *gin.Context) {
	var req replaceTagsRequest
	if !bindJSON(c, &req) {
		return
	}
	customer, err := h.customers.ReplaceTags(c.Request.Context(), c.Param("id"), req.TagIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

// GET /v1/admin/customers/:id/enrollments
func (h *CustomerHandler) GetEnrollments(c *gin.Context) {
	enrollments, err := h.customers.Enrollments(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": enrollments})
}

// GET /v1/admin/tags
func (h *CustomerHandler) GetTags(c *gin.Context) {
	tags, err := h.customers.ListTags(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tags})
}

// POST /v1/admin/tags
func (h *CustomerHandler) CreateTag(c *gin.Context) {
	var in service.TagInput
	if !bindJSON(c, &in) {
		return
	}
	tag, err := h.customers.CreateTag(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, tag)
}

// DELETE /v1/admin/tags/:id
func (h *CustomerHandler) DeleteTag(c *gin.Context) {
	if err := h.customers.DeleteTag(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "tag deleted"})
}

// POST /v1/admin/campaigns/recipients
func (h *CustomerHandler) ResolveRecipients(c *gin.Context) {
	var req recipientsRequest
	if !bindJSON(c, &req) {
		return
	}
	recipients, err := h.customers.Recipients(c.Request.Context(), req.TagIDs, req.MatchAll)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": recipients, "total": len(recipients)})
}
