package middlewares

import (
	"net/http"

	"github.com/geocoder89/dumbcrm/internal/domain/user"
	"github.com/gin-gonic/gin"
)

// RequireAdmin layers on top of RequireAuth and gates the user-management
// surface.
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)

		if !ok {
			abortUnauthorized(c, "Access token required")
			return
		}

		if u.Role != user.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   "Admin access required",
			})
			return
		}
		c.Next()
	}
}
