package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskforge/task-tracker-api/internal/auth"
	apierrors "github.com/taskforge/task-tracker-api/internal/errors"
	"github.com/taskforge/task-tracker-api/internal/models"
)

// Context keys under which the verified identity is stored.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUserRole = "user_role"
)

const bearerPrefix = "Bearer "

// RequireAuth verifies the bearer token on protected routes and attaches
// the caller's identity and role to the request context. A missing
// header, a wrong scheme, and a bad token all reject with the same 401.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, bearerPrefix) {
			apierrors.Unauthorized(c, "Access token is required")
			c.Abort()
			return
		}

		claims, err := tokens.Verify(strings.TrimPrefix(header, bearerPrefix))
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyUserRole, claims.Role)
		c.Next()
	}
}

// RequireRoles restricts a route to callers holding one of the permitted
// roles. It runs after RequireAuth and is evaluated per route
// registration.
func RequireRoles(roles ...models.Role) gin.HandlerFunc {
	permitted := make(map[models.Role]struct{}, len(roles))
	for _, role := range roles {
		permitted[role] = struct{}{}
	}

	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}
		if _, allowed := permitted[role]; !allowed {
			apierrors.Forbidden(c, "You do not have permission to perform this action")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context.
func GetUserID(c *gin.Context) (string, bool) {
	value, exists := c.Get(ContextKeyUserID)
	if !exists {
		return "", false
	}
	userID, ok := value.(string)
	return userID, ok && userID != ""
}

// GetUserRole retrieves the current user role from context.
func GetUserRole(c *gin.Context) (models.Role, bool) {
	value, exists := c.Get(ContextKeyUserRole)
	if !exists {
		return "", false
	}
	role, ok := value.(models.Role)
	return role, ok
}
