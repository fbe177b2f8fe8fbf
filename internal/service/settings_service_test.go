package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/cache"
	"crm-commerce/internal/models"
)

func newSettingsService(t *testing.T) (*SettingsService, *cache.Memory) {
	t.Helper()
	store := newTestStore(t)
	c := cache.NewMemory(time.Minute, time.Minute)
	t.Cleanup(func() { _ = c.Close() })
	return NewSettingsService(store.Settings, c, time.Minute, audit.Nop{}), c
}

func TestSettingsService_DefaultsWhenUnset(t *testing.T) {
	svc, _ := newSettingsService(t)

	sys, err := svc.System(context.Background())
	require.NoError(t, err)
	assert.Equal(t, DefaultSystemSettings(), sys)

	pay, err := svc.Payment(context.Background())
	require.NoError(t, err)
	assert.False(t, pay.Enabled)
}

func TestSettingsService_SaveInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	svc, c := newSettingsService(t)

	_, err := svc.System(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Size())

	_, err = svc.SaveSystem(ctx, models.SystemSettings{SiteName: "Acme", Currency: "EUR"})
	require.NoError(t, err)
	assert.Equal(t, 0, c.Size())

	sys, err := svc.System(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", sys.SiteName)
	assert.Equal(t, "EUR", sys.Currency)
}

func TestSettingsService_MaskedSecretKeepsStoredValue(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSettingsService(t)

	_, err := svc.SaveEmail(ctx, models.EmailSettings{SMTPHost: "smtp.local", SMTPPort: 25, Password: "hunter2", FromAddress: "a@b.c"})
	require.NoError(t, err)

	current, err := svc.Email(ctx)
	require.NoError(t, err)
	masked := MaskEmail(current)
	assert.Equal(t, SecretMask, masked.Password)

	masked.SMTPPort = 2525
	_, err = svc.SaveEmail(ctx, masked)
	require.NoError(t, err)

	current, err = svc.Email(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", current.Password)
	assert.Equal(t, 2525, current.SMTPPort)
}

func TestMaskPayment(t *testing.T) {
	assert.Empty(t, MaskPayment(models.PaymentSettings{}).SecretKey)
	assert.Equal(t, SecretMask, MaskPayment(models.PaymentSettings{SecretKey: "sk_live"}).SecretKey)
}
