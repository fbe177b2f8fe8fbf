package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"crm-commerce/internal/service"
)

type CategoryHandler struct {
	catalog *service.CatalogService
}

func NewCategoryHandler(catalog *service.CatalogService) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// GET /v1/categories
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := h.catalog.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// GET /v1/categories/:id
func (h *CategoryHandler) GetCategory(c *gin.Context) {
	category, err := h.catalog.GetCategory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// POST /v1/admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var in service.CategoryInput
	if !bindJSON(c, &in) {
		return
	}
	category, err := h.catalog.CreateCategory(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// PATCH /v1/admin/categories/:id
func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	var in service.CategoryUpdate
	if !bindJSON(c, &in) {
		return
	}
	category, err := h.catalog.UpdateCategory(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DELETE /v1/admin/categories/:id
func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	if err := h.catalog.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "category deleted"})
}

// GET /v1/admin/courses
func (h *CategoryHandler) GetCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": courses})
}

// POST /v1/admin/courses
func (h *CategoryHandler) CreateCourse(c *gin.Context) {
	var in service.CourseInput
	if !bindJSON(c, &in) {
		return
	}
	course, err := h.catalog.CreateCourse(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, course)
}
