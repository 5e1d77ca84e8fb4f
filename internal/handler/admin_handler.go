package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/sarank1634/quiz-master/internal/model"
	"github.com/sarank1634/quiz-master/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler handles administrative user-management requests
type AdminHandler struct {
	service service.UserService
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(s service.UserService) *AdminHandler {
	return &AdminHandler{service: s}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	role := c.Query("role")
	if role != "" && !model.ValidRole(role) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Unknown role filter"})
		return
	}

	users, err := h.service.ListUsers(c.Request.Context(), role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	user, err := h.service.GetUser(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// SetUserActive activates or deactivates an identity. Deactivation makes
// outstanding tokens unusable at the next request.
func (h *AdminHandler) SetUserActive(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	var req struct {
		IsActive *bool `json:"isActive" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	user, err := h.service.SetUserActive(c.Request.Context(), id, *req.IsActive)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User updated", "user": user})
}

func (h *AdminHandler) GetUserActivity(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid user ID"})
		return
	}

	limit := 0
	if limitParam := c.Query("limit"); limitParam != "" {
		limit, err = strconv.Atoi(limitParam)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid limit"})
			return
		}
	}

	activity, err := h.service.GetUserActivity(c.Request.Context(), id, limit)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch activity"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "activity": activity})
}

func (h *AdminHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// RegisterAdminRoutes registers admin routes behind the auth and admin gates
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, jwtAuthMW, adminMW gin.HandlerFunc) {
	adminGroup := rg.Group("/admin", jwtAuthMW, adminMW)
	{
		adminGroup.GET("/users", h.ListUsers)
		adminGroup.GET("/users/:id", h.GetUser)
		adminGroup.PATCH("/users/:id/active", h.SetUserActive)
		adminGroup.GET("/users/:id/activity", h.GetUserActivity)
		adminGroup.GET("/stats", h.GetStats)
	}
}
