// Package middleware provides HTTP middleware for the API.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"saletype/internal/core/apperror"
	appctx "saletype/internal/core/context"
)

// Permissions are colon-separated scopes ("catalog:sale_type:read"). A
// granted "catalog:sale_type:*" covers every action below the prefix and
// "*" covers everything.

// RequirePermission middleware checks if user has required permission.
// Admins automatically have all permissions.
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission middleware checks if user has any of the required permissions.
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := appctx.GetUser(c.Request.Context())
		if user == nil {
			_ = c.Error(apperror.NewUnauthorized("authentication required"))
			c.Abort()
			return
		}

		if user.IsAdmin {
			c.Next()
			return
		}

		for _, required := range permissions {
			for _, granted := range user.Permissions {
				if permissionMatches(granted, required) {
					c.Next()
					return
				}
			}
		}

		detail := any(permissions)
		if len(permissions) == 1 {
			detail = permissions[0]
		}
		_ = c.Error(
			apperror.NewForbidden("insufficient permissions").
				WithDetail("required_permission", detail),
		)
		c.Abort()
	}
}

func permissionMatches(granted, required string) bool {
	if granted == "*" || granted == required {
		return true
	}
	prefix, ok := strings.CutSuffix(granted, ":*")
	if !ok {
		return false
	}
	return strings.HasPrefix(required, prefix+":")
}
