package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"crm-commerce/internal/models"
)

type CustomerFilter struct {
	Page
	Search string
	TagID  string
}

type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	if err := r.db.WithContext(ctx).Create(customer).Error; err != nil {
		return fmt.Errorf("create customer: %w", err)
	}
	return nil
}

func (r *CustomerRepository) FindByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).Preload("Tags").First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find customer: %w", err)
	}
	return &customer, nil
}

// List returns one page of customers matching f.
func (r *CustomerRepository) List(ctx context.Context, f CustomerFilter) ([]models.Customer, int64, error) {
	f.Page = f.Page.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		if f.Search != "" {
			like := "%" + strings.ToLower(f.Search) + "%"
			db = db.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", like, like)
		}
		if f.TagID != "" {
			db = db.Where("id IN (?)", r.db.Table("customer_tags").Select("customer_id").Where("tag_id = ?", f.TagID))
		}
		return db
	}

	var (
		total     int64
		customers []models.Customer
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.Customer{}).Scopes(scope).Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Scopes(scope).Preload("Tags").
			Order("name").Order("id").
			Offset(f.Offset()).Limit(f.Limit).
			Find(&customers).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list customers: %w", err)
	}
	return customers, total, nil
}

func (r *CustomerRepository) Update(ctx context.Context, id string, cols map[string]any) error {
	result := r.db.WithContext(ctx).Model(&models.Customer{}).Where("id = ?", id).Updates(cols)
	if err := result.Error; err != nil {
		return fmt.Errorf("update customer: %w", err)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// ReplaceTags sets the customer's tags to exactly tags.
func (r *CustomerRepository) ReplaceTags(ctx context.Context, customer *models.Customer, tags []models.Tag) error {
	if err := r.db.WithContext(ctx).Model(customer).Association("Tags").Replace(tags); err != nil {
		return fmt.Errorf("replace customer tags: %w", err)
	}
	return nil
}

// Reachable returns customers with an email who have not opted out. With tagIDs,
// only customers carrying any of them (or all of them when matchAll) are kept.
func (r *CustomerRepository) Reachable(ctx context.Context, tagIDs []string, matchAll bool) ([]models.Customer, error) {
	q := r.db.WithContext(ctx).Model(&models.Customer{}).
		Where("email IS NOT NULL AND email <> '' AND email_opt_out = ?", false)

	if len(tagIDs) > 0 {
		sub := r.db.Table("customer_tags").Select("customer_id").Where("tag_id IN ?", tagIDs)
		if matchAll {
			sub = sub.Group("customer_id").Having("COUNT(DISTINCT tag_id) = ?", len(tagIDs))
		}
		q = q.Where("id IN (?)", sub)
	}

	var customers []models.Customer
	if err := q.Order("email").Find(&customers).Error; err != nil {
		return nil, fmt.Errorf("reachable customers: %w", err)
	}
	return customers, nil
}
