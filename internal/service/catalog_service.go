package service

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/models"
	"crm-commerce/internal/repository"
)

type ProductInput struct {
	SKU         string          `json:"sku" binding:"required,notblank,max=64"`
	Name        string          `json:"name" binding:"required,notblank,max=200"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"gte=0"`
	Stock       int             `json:"stock" binding:"gte=0"`
	IsActive    *bool           `json:"isActive"`
	CategoryID  *string         `json:"categoryId"`
	CourseID    *string         `json:"courseId"`
}

type CategoryInput struct {
	Name string              `json:"name" binding:"required,notblank,max=100"`
	Type models.CategoryType `json:"type" binding:"required,oneof=PHYSICAL DIGITAL COURSE"`
}

type CategoryUpdate struct {
	Name *string              `json:"name" binding:"omitempty,notblank,max=100"`
	Type *models.CategoryType `json:"type" binding:"omitempty,oneof=PHYSICAL DIGITAL COURSE"`
}

type CourseInput struct {
	Title       string `json:"title" binding:"required,notblank,max=200"`
	Description string `json:"description"`
}

// CatalogService manages products, categories and courses.
type CatalogService struct {
	store *repository.Store
	audit audit.Recorder
}

func NewCatalogService(store *repository.Store, recorder audit.Recorder) *CatalogService {
	return &CatalogService{store: store, audit: recorder}
}

func (s *CatalogService) CreateProduct(ctx context.Context, in ProductInput) (*models.Product, error) {
	if in.Price.IsNegative() {
		return nil, invalid("price", "price must not be negative")
	}
	if err := s.checkReferences(ctx, in.CategoryID, in.CourseID); err != nil {
		return nil, err
	}

	product := &models.Product{
		SKU:         strings.TrimSpace(in.SKU),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Stock:       in.Stock,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CategoryID:  emptyToNil(in.CategoryID),
		CourseID:    emptyToNil(in.CourseID),
	}
	if err := s.store.Products.Create(ctx, product); err != nil {
		return nil, translate(err, "product sku")
	}

	s.audit.Record(ctx, audit.Entry{Action: audit.ActionCreate, Entity: "Product", EntityID: product.ID, New: product})
	return product, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.store.Products.FindByID(ctx, id)
	return product, translate(err, "product")
}

func (s *CatalogService) ListProducts(ctx context.Context, f repository.ProductFilter) (PageResult[models.Product], error) {
	f.Page = f.Page.Normalize()
	products, total, err := s.store.Products.FindAll(ctx, f)
	if err != nil {
		return PageResult[models.Product]{}, err
	}
	return newPageResult(products, f.Page, total), nil
}

func (s *CatalogService) UpdateProduct(ctx context.Context, id string, in models.ProductUpdate) (*models.Product, error) {
	before, err := s.store.Products.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "product")
	}
	if in.Price != nil && in.Price.IsNegative() {
		return nil, invalid("price", "price must not be negative")
	}
	if err := s.checkReferences(ctx, in.CategoryID, in.CourseID); err != nil {
		return nil, err
	}

	cols := in.Columns()
	if len(cols) == 0 {
		return before, nil
	}
	if err := s.store.Products.Update(ctx, id, cols); err != nil {
		return nil, translate(err, "product sku")
	}

	after, err := s.store.Products.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "product")
	}
	s.audit.Record(ctx, audit.Entry{Action: audit.ActionUpdate, Entity: "Product", EntityID: id, Old: before, New: after})
	return after, nil
}

// DeleteProduct soft-deletes; past order items keep their snapshot.
func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.store.Products.SoftDelete(ctx, id); err != nil {
		return translate(err, "product")
	}
	s.audit.Record(ctx, audit.Entry{Action: audit.ActionDelete, Entity: "Product", EntityID: id})
	return nil
}

func (s *CatalogService) checkReferences(ctx context.Context, categoryID, courseID *string) error {
	if categoryID != nil && *categoryID != "" {
		if _, err := s.store.Categories.FindByID(ctx, *categoryID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return invalid("categoryId", "category %q does not exist", *categoryID)
			}
			return err
		}
	}
	if courseID != nil && *courseID != "" {
		if _, err := s.store.Courses.FindByID(ctx, *courseID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return invalid("courseId", "course %q does not exist", *courseID)
			}
			return err
		}
	}
	return nil
}

func (s *CatalogService) CreateCategory(ctx context.Context, in CategoryInput) (*models.Category, error) {
	category := &models.Category{Name: strings.TrimSpace(in.Name), Type: in.Type}
	if err := s.store.Categories.Create(ctx, category); err != nil {
		return nil, translate(err, "category")
	}
	s.audit.Record(ctx, audit.Entry{Action: audit.ActionCreate, Entity: "Category", EntityID: category.ID, New: category})
	return category, nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.store.Categories.FindByID(ctx, id)
	return category, translate(err, "category")
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	return s.store.Categories.FindAll(ctx)
}

func (s *CatalogService) UpdateCategory(ctx context.Context, id string, in CategoryUpdate) (*models.Category, error) {
	before, err := s.store.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "category")
	}
	cols := map[string]any{}
	if in.Name != nil {
		cols["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		cols["type"] = *in.Type
	}
	if len(cols) == 0 {
		return before, nil
	}
	if err := s.store.Categories.Update(ctx, id, cols); err != nil {
		return nil, translate(err, "category")
	}
	after, err := s.store.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "category")
	}
	s.audit.Record(ctx, audit.Entry{Action: audit.ActionUpdate, Entity: "Category", EntityID: id, Old: before, New: after})
	return after, nil
}

// DeleteCategory detaches its products and removes its shipping rate.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	err := s.store.Transaction(ctx, func(tx *repository.Store) error {
		return tx.Categories.Delete(ctx, id)
	})
	if err != nil {
		return translate(err, "category")
	}
	s.audit.Record(ctx, audit.Entry{Action: audit.ActionDelete, Entity: "Category", EntityID: id})
	return nil
}

func (s *CatalogService) CreateCourse(ctx context.Context, in CourseInput) (*models.Course, error) {
	course := &models.Course{Title: strings.TrimSpace(in.Title), Description: in.Description}
	if err := s.store.Courses.Create(ctx, course); err != nil {
		return nil, translate(err, "course")
	}
	s.audit.Record(ctx, audit.Entry{Action: audit.ActionCreate, Entity: "Course", EntityID: course.ID, New: course})
	return course, nil
}

func (s *CatalogService) ListCourses(ctx context.Context) ([]models.Course, error) {
	return s.store.Courses.FindAll(ctx)
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
