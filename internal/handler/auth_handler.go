package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/sarank1634/quiz-master/internal/middleware"
	"github.com/sarank1634/quiz-master/internal/service"

	"github.com/gin-gonic/gin"
)

// invalidCredentialsMessage is deliberately identical for unknown email,
// inactive identity and wrong password.
const invalidCredentialsMessage = "Invalid email or password"

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

type registerRequest struct {
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=6"`
	FullName      string  `json:"fullName" binding:"required"`
	Qualification *string `json:"qualification"`
	DateOfBirth   *string `json:"dateOfBirth"` // YYYY-MM-DD
}

func (r *registerRequest) toInput() (service.RegisterInput, error) {
	in := service.RegisterInput{
		Email:         r.Email,
		Password:      r.Password,
		FullName:      r.FullName,
		Qualification: r.Qualification,
	}
	if r.DateOfBirth != nil && *r.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *r.DateOfBirth)
		if err != nil {
			return in, errors.New("invalid dateOfBirth, use YYYY-MM-DD")
		}
		in.DateOfBirth = &dob
	}
	return in, nil
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists with this email"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    user,
		"token":   token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password, requestMeta(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": invalidCredentialsMessage})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"user":    user,
		"token":   token,
	})
}

// CreateAdmin bootstraps the first admin account. Once an admin exists the
// endpoint always fails.
func (h *AuthHandler) CreateAdmin(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request: " + err.Error()})
		return
	}

	in, err := req.toInput()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		return
	}

	admin, token, err := h.service.CreateAdmin(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, service.ErrAdminAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Admin user already exists"})
			return
		}
		if errors.Is(err, service.ErrUserAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "User already exists with this email"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Admin creation failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Admin created successfully",
		"user":    admin,
		"token":   token,
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	userID := c.GetInt(middleware.AuthUserKey)

	user, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Failed to fetch profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID := c.GetInt(middleware.AuthUserKey)

	if err := h.service.Logout(c.Request.Context(), userID, requestMeta(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Logout failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Logged out"})
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, jwtAuthMW, loginRateMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", loginRateMW, h.Login)
		authGroup.POST("/create-admin", h.CreateAdmin)
		authGroup.GET("/profile", jwtAuthMW, h.Profile)
		authGroup.POST("/logout", jwtAuthMW, h.Logout)
	}
}
