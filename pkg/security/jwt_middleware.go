package security

import (
	"net/http"
	"strings"

	"github.com/SarprasYP/sispras/pkg/roles"

	"github.com/gin-gonic/gin"
)

// Context keys populated from token claims.
const (
	ContextUserID   = "userID"
	ContextRole     = "role"
	ContextUsername = "username"
)

const bearerPrefix = "Bearer "

// JWTMiddleware rejects requests without a valid bearer token and copies
// the token claims into the gin context.
func (m *TokenManager) JWTMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header missing"})
			return
		}
		if !strings.HasPrefix(authHeader, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization scheme must be Bearer"})
			return
		}

		claims, err := m.parse(strings.TrimPrefix(authHeader, bearerPrefix))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		for _, key := range []string{ContextUserID, ContextRole, ContextUsername} {
			c.Set(key, claims[key])
		}
		c.Next()
	}
}

// Authorize lets the request through only when the caller's role covers requiredRole.
func Authorize(requiredRole roles.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, ok := c.Get(ContextRole)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			return
		}
		role, ok := userRole.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Invalid role format"})
			return
		}

		if !roles.Role(role).HasPermission(requiredRole) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden: insufficient permissions"})
			return
		}
		c.Next()
	}
}
