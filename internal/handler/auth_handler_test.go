package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sarank1634/quiz-master/internal/logging"
	"github.com/sarank1634/quiz-master/internal/middleware"
	"github.com/sarank1634/quiz-master/internal/repository"
	"github.com/sarank1634/quiz-master/internal/service"
	"github.com/sarank1634/quiz-master/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	userRepo := repository.NewMemoryUserRepository()
	activityRepo := repository.NewMemoryLoginActivityRepository()
	jwtUtil := utils.NewJWTUtil("test-secret", 24)
	authService := service.NewAuthService(userRepo, activityRepo, jwtUtil, "", logging.Discard())
	userService := service.NewUserService(userRepo, activityRepo)

	router := gin.New()
	api := router.Group("/api/v1")
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil, userRepo)
	noRateLimit := middleware.LoginRateLimitMiddleware(nil, 0)
	NewAuthHandler(authService).RegisterAuthRoutes(api, jwtAuthMW, noRateLimit)
	NewAdminHandler(userService).RegisterAdminRoutes(api, jwtAuthMW, middleware.AdminMiddleware())
	return router
}

func doJSON(router *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func registerAlice(t *testing.T, router *gin.Engine) (map[string]any, string) {
	t.Helper()
	w := doJSON(router, http.MethodPost, "/api/v1/auth/register",
		`{"email":"alice@example.com","password":"secret1","fullName":"Alice A"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Success bool           `json:"success"`
		User    map[string]any `json:"user"`
		Token   string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NotEmpty(t, resp.Token)
	return resp.User, resp.Token
}

func TestRegister(t *testing.T) {
	router := newTestRouter(t)

	user, token := registerAlice(t, router)

	assert.Equal(t, "alice@example.com", user["email"])
	assert.Equal(t, "user", user["role"])
	assert.Equal(t, "Alice A", user["fullName"])
	assert.NotEmpty(t, token)
	// The password hash never crosses the HTTP boundary
	assert.NotContains(t, user, "password")
	assert.NotContains(t, user, "passwordHash")
}

func TestRegister_Validation(t *testing.T) {
	router := newTestRouter(t)

	cases := []struct {
		name string
		body string
	}{
		{"short password", `{"email":"a@b.com","password":"12345","fullName":"A"}`},
		{"bad email", `{"email":"not-an-email","password":"secret1","fullName":"A"}`},
		{"missing fullName", `{"email":"a@b.com","password":"secret1"}`},
		{"bad dateOfBirth", `{"email":"a@b.com","password":"secret1","fullName":"A","dateOfBirth":"15-01-1995"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(router, http.MethodPost, "/api/v1/auth/register", tc.body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}

func TestRegister_Duplicate(t *testing.T) {
	router := newTestRouter(t)
	registerAlice(t, router)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/register",
		`{"email":"alice@example.com","password":"secret1","fullName":"Alice A"}`, "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"User already exists with this email"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	router := newTestRouter(t)
	registerAlice(t, router)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/login",
		`{"email":"alice@example.com","password":"secret1"}`, "")

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool           `json:"success"`
		User    map[string]any `json:"user"`
		Token   string         `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice@example.com", resp.User["email"])
	assert.NotNil(t, resp.User["lastLogin"])
}

func TestLogin_InvalidCredentials(t *testing.T) {
	router := newTestRouter(t)
	registerAlice(t, router)

	wrongPass := doJSON(router, http.MethodPost, "/api/v1/auth/login",
		`{"email":"alice@example.com","password":"wrongpass"}`, "")
	unknownEmail := doJSON(router, http.MethodPost, "/api/v1/auth/login",
		`{"email":"ghost@example.com","password":"secret1"}`, "")

	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
	assert.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid email or password"}`, wrongPass.Body.String())
	// The body must not reveal whether the email exists
	assert.Equal(t, wrongPass.Body.String(), unknownEmail.Body.String())
}

func TestProfile(t *testing.T) {
	router := newTestRouter(t)
	_, token := registerAlice(t, router)

	w := doJSON(router, http.MethodGet, "/api/v1/auth/profile", "", token)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Success bool           `json:"success"`
		User    map[string]any `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "alice@example.com", resp.User["email"])
	assert.Equal(t, "user", resp.User["role"])
	assert.NotContains(t, resp.User, "password")
}

func TestProfile_NoToken(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/v1/auth/profile", "", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogout(t *testing.T) {
	router := newTestRouter(t)
	_, token := registerAlice(t, router)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/logout", "", token)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)
}

func TestCreateAdmin_Bootstrap(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/v1/auth/create-admin",
		`{"email":"admin@quizmaster.com","password":"admin123","fullName":"Quiz Master Admin"}`, "")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)

	// Once an admin exists the endpoint is inert
	w = doJSON(router, http.MethodPost, "/api/v1/auth/create-admin",
		`{"email":"admin2@quizmaster.com","password":"admin123","fullName":"Second Admin"}`, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Admin user already exists"}`, w.Body.String())
}
