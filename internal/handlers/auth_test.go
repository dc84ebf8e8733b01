package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/nelttjen/chat-platform-api/internal/config"
	"github.com/nelttjen/chat-platform-api/internal/dto"
	"github.com/nelttjen/chat-platform-api/internal/middleware"
	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/repository"
	"github.com/nelttjen/chat-platform-api/internal/services"
	"github.com/nelttjen/chat-platform-api/internal/token"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type authTestEnv struct {
	db          *gorm.DB
	handler     *AuthHandler
	authService *services.AuthService
}

func setupAuthTestEnv(t *testing.T) authTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.Chat{},
		&models.ChatMember{},
		&models.InviteLink{},
	)
	require.NoError(t, err)

	cfg := &config.Config{
		JWTSecret:              "test-secret",
		AccessTokenTTLMinutes:  60,
		RefreshTokenTTLMinutes: 60 * 24 * 15,
		PasswordPolicyEnabled:  true,
	}

	users := repository.NewUserRepository(db)
	authService := services.NewAuthService(users, token.New(cfg.JWTSecret), services.NewBcryptHasher(), cfg)
	handler := NewAuthHandler(authService)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return authTestEnv{
		db:          db,
		handler:     handler,
		authService: authService,
	}
}

func postJSON(t *testing.T, r *gin.Engine, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupAuthTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"username": "newuser",
		"email":    "newuser@x.com",
		"password": "Abcdef1!",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.TokenPairDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "newuser", response.User.Username)
	require.NotEmpty(t, response.AccessToken)
	require.NotEmpty(t, response.RefreshToken)
}

func TestAuthHandler_RegisterConflict(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "taken",
		Email:    "taken@x.com",
		Password: "Abcdef1!",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/register", env.handler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"username": "taken",
		"email":    "other@x.com",
		"password": "Abcdef1!",
	})

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupAuthTestEnv(t)

	_, err := env.authService.Register(services.RegisterInput{
		Username: "existing",
		Email:    "existing@x.com",
		Password: "Abcdef1!",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/login", env.handler.Login)

	// Both the username and the email work as the login identifier.
	for _, identifier := range []string{"existing", "existing@x.com"} {
		w := postJSON(t, r, "/api/auth/login", map[string]string{
			"identifier": identifier,
			"password":   "Abcdef1!",
		})

		require.Equal(t, http.StatusCreated, w.Code)

		var response dto.TokenPairDTO
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Equal(t, "existing", response.User.Username)
	}

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"identifier": "existing",
		"password":   "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Refresh(t *testing.T) {
	env := setupAuthTestEnv(t)

	pair, err := env.authService.Register(services.RegisterInput{
		Username: "refresher",
		Email:    "refresher@x.com",
		Password: "Abcdef1!",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/refresh", env.handler.Refresh)

	w := postJSON(t, r, "/api/auth/refresh", map[string]string{
		"refresh_token": pair.RefreshToken,
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.TokenPairDTO
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NoError(t, env.authService.ValidateAccessToken(response.AccessToken))

	// An access token is not accepted in the refresh slot.
	w = postJSON(t, r, "/api/auth/refresh", map[string]string{
		"refresh_token": pair.AccessToken,
	})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthHandler_Validate(t *testing.T) {
	env := setupAuthTestEnv(t)

	pair, err := env.authService.Register(services.RegisterInput{
		Username: "validated",
		Email:    "validated@x.com",
		Password: "Abcdef1!",
	})
	require.NoError(t, err)

	r := gin.New()
	r.POST("/api/auth/validate", env.handler.Validate)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// A valid token under the wrong scheme is not accepted.
	for _, header := range []string{
		"Basic " + pair.AccessToken,
		"Token: " + pair.AccessToken,
		pair.AccessToken,
	} {
		req = httptest.NewRequest(http.MethodPost, "/api/auth/validate", nil)
		req.Header.Set("Authorization", header)
		w = httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/api/auth/validate", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ProtectedRoute(t *testing.T) {
	env := setupAuthTestEnv(t)

	pair, err := env.authService.Register(services.RegisterInput{
		Username: "protected",
		Email:    "protected@x.com",
		Password: "Abcdef1!",
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/api/protected", middleware.RequireAuth(env.authService), func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"user_id": userID})
	})

	req := httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	// Refresh tokens do not open protected routes.
	req = httptest.NewRequest(http.MethodGet, "/api/protected", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_RequireStaff(t *testing.T) {
	env := setupAuthTestEnv(t)

	pair, err := env.authService.Register(services.RegisterInput{
		Username: "plainuser",
		Email:    "plainuser@x.com",
		Password: "Abcdef1!",
	})
	require.NoError(t, err)

	r := gin.New()
	r.GET("/api/admin/ping", middleware.RequireStaff(env.authService), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)

	// Flip the staff bit and the same token passes.
	require.NoError(t, env.db.Model(&models.User{}).
		Where("username = ?", "plainuser").
		Update("is_staff", true).Error)

	req = httptest.NewRequest(http.MethodGet, "/api/admin/ping", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNoContent, w.Code)
}
