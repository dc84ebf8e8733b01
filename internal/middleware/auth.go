package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nelttjen/chat-platform-api/internal/constants"
	apierrors "github.com/nelttjen/chat-platform-api/internal/errors"
	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/services"
	"github.com/nelttjen/chat-platform-api/internal/token"
)

// RequireAuth resolves the bearer access token into a user. Banned users are
// rejected here regardless of which route they hit.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return requireAuthWith(authService)
}

// RequireStaff is RequireAuth plus the staff capability flag.
func RequireStaff(authService *services.AuthService) gin.HandlerFunc {
	return requireAuthWith(authService, services.CapabilityStaff)
}

func requireAuthWith(authService *services.AuthService, require ...services.Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		bearer, ok := bearerToken(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, err := authService.ResolveUserFromToken(bearer, token.TypeAccess, require...)
		if err != nil {
			if errors.Is(err, services.ErrForbidden) {
				apierrors.Forbidden(c, err.Error())
			} else {
				apierrors.Unauthorized(c, services.ErrBadToken.Error())
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, user)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(uint64)
	return id, ok
}

// GetUser retrieves the current user from context
func GetUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return nil, false
	}

	user, ok := value.(*models.User)
	return user, ok
}
