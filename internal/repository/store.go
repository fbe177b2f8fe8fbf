package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles the SQL repositories so a workflow can run them inside one transaction.
type Store struct {
	db *gorm.DB

	Products      *ProductRepository
	Categories    *CategoryRepository
	ShippingRates *ShippingRateRepository
	Carts         *CartRepository
	Orders        *OrderRepository
	Customers     *CustomerRepository
	Tags          *TagRepository
	Courses       *CourseRepository
	Enrollments   *EnrollmentRepository
	Settings      *SettingsRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Products:      NewProductRepository(db),
		Categories:    NewCategoryRepository(db),
		ShippingRates: NewShippingRateRepository(db),
		Carts:         NewCartRepository(db),
		Orders:        NewOrderRepository(db),
		Customers:     NewCustomerRepository(db),
		Tags:          NewTagRepository(db),
		Courses:       NewCourseRepository(db),
		Enrollments:   NewEnrollmentRepository(db),
		Settings:      NewSettingsRepository(db),
	}
}

// DB exposes the underlying handle, bound to the transaction when inside one.
func (s *Store) DB() *gorm.DB {
	return s.db
}

// Transaction runs fn against a Store bound to a single transaction.
// Any error returned by fn, or a panic, rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
