package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/sarank1634/quiz-master/internal/repository"
	"github.com/sarank1634/quiz-master/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey  = "authUser"
	AuthRoleKey  = "authRole"
	AuthEmailKey = "authEmail"
)

// JWTAuthMiddleware verifies the bearer token and re-fetches the identity
// record, so a role change or deactivation takes effect immediately instead
// of waiting for token expiry.
func JWTAuthMiddleware(jwtUtil *utils.JWTUtil, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Access token required"})
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			if errors.Is(err, utils.ErrTokenExpired) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Token expired"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid token"})
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to resolve user"})
			return
		}
		if user == nil || !user.IsActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "message": "User not found or inactive"})
			return
		}

		// Authorization decisions use the current record, not the token claims
		c.Set(AuthUserKey, user.ID)
		c.Set(AuthRoleKey, user.Role)
		c.Set(AuthEmailKey, user.Email)

		c.Next()
	}
}

// OptionalAuthMiddleware attaches the identity when a valid token for an
// active user is presented, and proceeds unauthenticated otherwise. It never
// rejects a request.
func OptionalAuthMiddleware(jwtUtil *utils.JWTUtil, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			c.Next()
			return
		}

		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err == nil && user != nil && user.IsActive {
			c.Set(AuthUserKey, user.ID)
			c.Set(AuthRoleKey, user.Role)
			c.Set(AuthEmailKey, user.Email)
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", false
	}
	return parts[1], true
}
