package auth

import (
	"errors"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleAdmin    Role = "ADMIN"
)

// Permissions checked by admin endpoints. PermAll grants every permission.
const (
	PermOrdersView      = "orders.view"
	PermOrdersManage    = "orders.manage"
	PermCatalogManage   = "catalog.manage"
	PermCustomersManage = "customers.manage"
	PermSettingsManage  = "settings.manage"
	PermAuditView       = "audit.view"
	PermReportsView     = "reports.view"
	PermAll             = "*"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID      string
	Name        string
	Role        Role
	Permissions []string
}

func (p Principal) IsAdmin() bool    { return p.Role == RoleAdmin }
func (p Principal) IsCustomer() bool { return p.Role == RoleCustomer }

// HasPermission reports whether an admin holds perm.
func (p Principal) HasPermission(perm string) bool {
	if !p.IsAdmin() {
		return false
	}
	return slices.Contains(p.Permissions, PermAll) || slices.Contains(p.Permissions, perm)
}

type Claims struct {
	Name        string   `json:"name,omitempty"`
	Role        Role     `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// TokenManager signs and verifies HS256 bearer tokens.
type TokenManager struct {
	secret []byte
	issuer string
	now    func() time.Time
}

func NewTokenManager(secret, issuer string) *TokenManager {
	return &TokenManager{secret: []byte(secret), issuer: issuer, now: time.Now}
}

// Generate issues a token for p that expires after ttl.
func (m *TokenManager) Generate(p Principal, ttl time.Duration) (string, error) {
	if p.Role != RoleAdmin && p.Role != RoleCustomer {
		return "", errors.New("role must be ADMIN or CUSTOMER")
	}
	now := m.now()
	claims := Claims{
		Name:        p.Name,
		Role:        p.Role,
		Permissions: p.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   p.UserID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// Validate parses tokenString and returns the principal it carries.
func (m *TokenManager) Validate(tokenString string) (Principal, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	}, jwt.WithIssuer(m.issuer), jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Principal{}, ErrExpiredToken
		}
		return Principal{}, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return Principal{}, ErrInvalidToken
	}
	if claims.Role != RoleAdmin && claims.Role != RoleCustomer {
		return Principal{}, ErrInvalidToken
	}

	return Principal{
		UserID:      claims.Subject,
		Name:        claims.Name,
		Role:        claims.Role,
		Permissions: claims.Permissions,
	}, nil
}
