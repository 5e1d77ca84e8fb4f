package middleware

import (
	"net/http"

	"github.com/sarank1634/quiz-master/internal/model"

	"github.com/gin-gonic/gin"
)

// RoleMiddleware rejects requests unless the resolved role is in the allowed
// set. Comparison is exact; the role enum is closed and case-sensitive.
func RoleMiddleware(denyMessage string, allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Role not resolved, ensure auth middleware runs first"})
			return
		}

		userRole, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": "Invalid role type"})
			return
		}

		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "message": denyMessage})
	}
}

// AdminMiddleware passes only admins
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware("Admin access required", model.RoleAdmin)
}

// UserMiddleware passes any recognized authenticated role
func UserMiddleware() gin.HandlerFunc {
	return RoleMiddleware("User access required", model.RoleUser, model.RoleAdmin)
}
