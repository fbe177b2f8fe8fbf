package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"crm-commerce/internal/audit"
	"crm-commerce/internal/auth"
)

const principalKey = "principal"

// Authenticate requires a valid bearer token and stores the principal on the
// gin context. The audit actor is attached to the request context.
func Authenticate(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(raw) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		p, err := tokens.Validate(strings.TrimSpace(raw))
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token has expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(principalKey, p)
		ctx := audit.WithActor(c.Request.Context(), audit.Actor{
			UserID:    p.UserID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequireCustomer lets only customers through.
func RequireCustomer() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok || !p.IsCustomer() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "customer access required"})
			return
		}
		c.Next()
	}
}

// RequireAdmin lets through admins holding perm.
func RequireAdmin(perm string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := PrincipalFrom(c)
		if !ok || !p.HasPermission(perm) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "permission " + perm + " required"})
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the principal Authenticate stored on c.
func PrincipalFrom(c *gin.Context) (auth.Principal, bool) {
	v, ok := c.Get(principalKey)
	if !ok {
		return auth.Principal{}, false
	}
	p, ok := v.(auth.Principal)
	return p, ok
}
