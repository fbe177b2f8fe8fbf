package repository

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"crm-commerce/internal/models"
)

// AuditFilter narrows an audit log listing. Zero values match everything.
type AuditFilter struct {
	Page
	Entity   string
	EntityID string
	UserID   string
	Action   string
	From     time.Time
	To       time.Time
}

// AuditRepository stores audit entries in the SQL database.
type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Insert(ctx context.Context, entry *models.AuditLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// List returns one page of entries matching f, newest first.
func (r *AuditRepository) List(ctx context.Context, f AuditFilter) ([]models.AuditLog, int64, error) {
	f.Page = f.Page.Normalize()
	scope := func(db *gorm.DB) *gorm.DB {
		if f.Entity != "" {
			db = db.Where("entity = ?", f.Entity)
		}
		if f.EntityID != "" {
			db = db.Where("entity_id = ?", f.EntityID)
		}
		if f.UserID != "" {
			db = db.Where("user_id = ?", f.UserID)
		}
		if f.Action != "" {
			db = db.Where("action = ?", f.Action)
		}
		if !f.From.IsZero() {
			db = db.Where("created_at >= ?", f.From)
		}
		if !f.To.IsZero() {
			db = db.Where("created_at < ?", f.To)
		}
		return db
	}

	var (
		total int64
		logs  []models.AuditLog
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.db.WithContext(gctx).Model(&models.AuditLog{}).Scopes(scope).Count(&total).Error
	})
	g.Go(func() error {
		return r.db.WithContext(gctx).Scopes(scope).
			Order("created_at DESC").Order("id").
			Offset(f.Offset()).Limit(f.Limit).
			Find(&logs).Error
	})
	if err := g.Wait(); err != nil {
		return nil, 0, fmt.Errorf("list audit logs: %w", err)
	}
	return logs, total, nil
}
