package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/cache"
	"crm-commerce/internal/models"
	"crm-commerce/internal/repository"
)

// SecretMask replaces stored secrets in responses. Sending it back on save keeps the stored value.
const SecretMask = "********"

const (
	settingsPrefix     = "settings:"
	systemSettingsKey  = settingsPrefix + "system"
	emailSettingsKey   = settingsPrefix + "email"
	paymentSettingsKey = settingsPrefix + "payment"
)

func DefaultSystemSettings() models.SystemSettings {
	return models.SystemSettings{SiteName: "CRM Commerce", Currency: "USD"}
}

func DefaultEmailSettings() models.EmailSettings {
	return models.EmailSettings{SMTPPort: 587}
}

func DefaultPaymentSettings() models.PaymentSettings {
	return models.PaymentSettings{Provider: "none", Currency: "USD"}
}

// SettingsService is the single read accessor for system, email and payment
// settings. Reads go through the cache; writes invalidate it.
type SettingsService struct {
	repo  *repository.SettingsRepository
	cache cache.Store
	ttl   time.Duration
	audit audit.Recorder
}

func NewSettingsService(repo *repository.SettingsRepository, c cache.Store, ttl time.Duration, recorder audit.Recorder) *SettingsService {
	return &SettingsService{repo: repo, cache: c, ttl: ttl, audit: recorder}
}

func (s *SettingsService) System(ctx context.Context) (models.SystemSettings, error) {
	return load(ctx, s, systemSettingsKey, s.repo.GetSystem, DefaultSystemSettings())
}

func (s *SettingsService) Email(ctx context.Context) (models.EmailSettings, error) {
	return load(ctx, s, emailSettingsKey, s.repo.GetEmail, DefaultEmailSettings())
}

func (s *SettingsService) Payment(ctx context.Context) (models.PaymentSettings, error) {
	return load(ctx, s, paymentSettingsKey, s.repo.GetPayment, DefaultPaymentSettings())
}

func load[T any](ctx context.Context, s *SettingsService, key string, fetch func(context.Context) (*T, error), def T) (T, error) {
	var cached T
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("settings cache read failed")
	}
	if hit {
		return cached, nil
	}

	value, err := fetch(ctx)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		value = &def
	case err != nil:
		return def, err
	}

	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("settings cache write failed")
	}
	return *value, nil
}

func (s *SettingsService) SaveSystem(ctx context.Context, in models.SystemSettings) (models.SystemSettings, error) {
	before, err := s.System(ctx)
	if err != nil {
		return in, err
	}
	if err := s.repo.SaveSystem(ctx, &in); err != nil {
		return in, err
	}
	s.saved(ctx, "SystemSettings", before, in)
	return in, nil
}

func (s *SettingsService) SaveEmail(ctx context.Context, in models.EmailSettings) (models.EmailSettings, error) {
	before, err := s.Email(ctx)
	if err != nil {
		return in, err
	}
	if in.Password == SecretMask {
		in.Password = before.Password
	}
	if err := s.repo.SaveEmail(ctx, &in); err != nil {
		return in, err
	}
	s.saved(ctx, "EmailSettings", MaskEmail(before), MaskEmail(in))
	return in, nil
}

func (s *SettingsService) SavePayment(ctx context.Context, in models.PaymentSettings) (models.PaymentSettings, error) {
	before, err := s.Payment(ctx)
	if err != nil {
		return in, err
	}
	if in.SecretKey == SecretMask {
		in.SecretKey = before.SecretKey
	}
	if err := s.repo.SavePayment(ctx, &in); err != nil {
		return in, err
	}
	s.saved(ctx, "PaymentSettings", MaskPayment(before), MaskPayment(in))
	return in, nil
}

func (s *SettingsService) saved(ctx context.Context, entity string, before, after any) {
	if err := s.cache.DeleteByPrefix(ctx, settingsPrefix); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("settings cache invalidation failed")
	}
	s.audit.Record(ctx, audit.Entry{Action: audit.ActionUpdate, Entity: entity, EntityID: "1", Old: before, New: after})
}

func MaskEmail(e models.EmailSettings) models.EmailSettings {
	if e.Password != "" {
		e.Password = SecretMask
	}
	return e
}

func MaskPayment(p models.PaymentSettings) models.PaymentSettings {
	if p.SecretKey != "" {
		p.SecretKey = SecretMask
	}
	return p
}
