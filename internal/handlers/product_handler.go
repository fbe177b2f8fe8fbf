package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crm-commerce/internal/models"
	"crm-commerce/internal/repository"
	"crm-commerce/internal/service"
)

type ProductHandler struct {
	catalog *service.CatalogService
}

func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

type productListQuery struct {
	pageQuery
	Search     string `form:"search"`
	CategoryID string `form:"categoryId"`
	Active     *bool  `form:"active"`
	SortBy     string `form:"sortBy"`
	SortOrder  string `form:"sortOrder"`
}

func (q productListQuery) filter() repository.ProductFilter {
	return repository.ProductFilter{
		Page:       q.toPage(),
		Search:     q.Search,
		CategoryID: q.CategoryID,
		Active:     q.Active,
		SortBy:     q.SortBy,
		SortOrder:  q.SortOrder,
	}
}

// POST /v1/admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var in service.ProductInput
	if !bindJSON(c, &in) {
		return
	}
	product, err := h.catalog.CreateProduct(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// GET /v1/products
// The storefront only lists active products.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var q productListQuery
	if !bindQuery(c, &q) {
		return
	}
	active := true
	f := q.filter()
	f.Active = &active

	page, err := h.catalog.ListProducts(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /v1/admin/products
func (h *ProductHandler) GetAllProducts(c *gin.Context) {
	var q productListQuery
	if !bindQuery(c, &q) {
		return
	}
	page, err := h.catalog.ListProducts(c.Request.Context(), q.filter())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GET /v1/products/:id
func (h *ProductHandler) GetProductByID(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if !product.IsActive && !principal(c).IsAdmin() {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// GET /v1/admin/products/:id
func (h *ProductHandler) GetAnyProduct(c *gin.Context) {
	product, err := h.catalog.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// PATCH /v1/admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	var update models.ProductUpdate
	if !bindJSON(c, &update) {
		return
	}
	product, err := h.catalog.UpdateProduct(c.Request.Context(), c.Param("id"), update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

// DELETE /v1/admin/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.catalog.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "product deleted"})
}
