package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", "crm-commerce")
	in := Principal{UserID: "u1", Name: "Ann", Role: RoleAdmin, Permissions: []string{PermOrdersView}}

	token, err := m.Generate(in, time.Hour)
	require.NoError(t, err)

	out, err := m.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", "crm-commerce")
	token, err := m.Generate(Principal{UserID: "u1", Role: RoleCustomer}, time.Hour)
	require.NoError(t, err)

	_, err = NewTokenManager("other", "crm-commerce").Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = NewTokenManager("secret", "someone-else").Validate(token)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Validate("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.Generate(Principal{UserID: "u1", Role: "ROOT"}, time.Hour)
	assert.Error(t, err)
}

func TestTokenManager_Expired(t *testing.T) {
	m := NewTokenManager("secret", "crm-commerce")
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.Generate(Principal{UserID: "u1", Role: RoleCustomer}, time.Hour)
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.Validate(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestPrincipal_HasPermission(t *testing.T) {
	admin := Principal{Role: RoleAdmin, Permissions: []string{PermOrdersView}}
	assert.True(t, admin.HasPermission(PermOrdersView))
	assert.False(t, admin.HasPermission(PermOrdersManage))

	super := Principal{Role: RoleAdmin, Permissions: []string{PermAll}}
	assert.True(t, super.HasPermission(PermSettingsManage))

	customer := Principal{Role: RoleCustomer, Permissions: []string{PermAll}}
	assert.False(t, customer.HasPermission(PermOrdersView))
}
