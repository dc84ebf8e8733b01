package middleware

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nelttjen/chat-platform-api/internal/constants"
	apierrors "github.com/nelttjen/chat-platform-api/internal/errors"
	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/services"
)

// RequireChatRole loads the chat from the :id parameter and enforces the
// role gate: the caller must hold an active membership with at least the
// given role. The loaded chat is stored in the context for handlers.
func RequireChatRole(chatService *services.ChatService, minRole models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			apierrors.BadRequest(c, "Invalid chat ID")
			c.Abort()
			return
		}

		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		chat, err := chatService.GetChat(chatID)
		if err != nil {
			if errors.Is(err, services.ErrChatNotFound) {
				apierrors.NotFound(c, err.Error())
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		if err := chatService.CheckAccess(chat.ID, userID, minRole); err != nil {
			if errors.Is(err, services.ErrChatAccessDenied) {
				apierrors.Forbidden(c, err.Error())
			} else {
				apierrors.InternalError(c, "")
			}
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyChat, chat)
		c.Next()
	}
}

// GetChat retrieves the chat loaded by RequireChatRole from context
func GetChat(c *gin.Context) (*models.Chat, bool) {
	value, exists := c.Get(constants.ContextKeyChat)
	if !exists {
		return nil, false
	}

	chat, ok := value.(*models.Chat)
	return chat, ok
}
