package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nelttjen/chat-platform-api/internal/dto"
	apierrors "github.com/nelttjen/chat-platform-api/internal/errors"
	"github.com/nelttjen/chat-platform-api/internal/middleware"
	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/services"
	"github.com/nelttjen/chat-platform-api/internal/utils"
)

// ChatHandler coordinates chat-related HTTP handlers.
type ChatHandler struct {
	chatService *services.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *services.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// CreateChat creates a new chat owned by the caller.
func (h *ChatHandler) CreateChat(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateChatRequest struct {
		Name string `json:"name" binding:"required"`
	}

	var req CreateChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	chat, err := h.chatService.CreateChat(userID, req.Name)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToChatDTO(*chat))
}

// ListChats returns the caller's active chats with their roles.
func (h *ChatHandler) ListChats(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	params := utils.GetPaginationParams(c)
	memberships, total, err := h.chatService.ListUserChats(userID, params)
	if err != nil {
		respondChatError(c, err)
		return
	}

	chats := make([]dto.ChatWithRoleDTO, len(memberships))
	for i, member := range memberships {
		chats[i] = dto.ToChatWithRoleDTO(member)
	}

	c.JSON(http.StatusOK, gin.H{
		"results":    chats,
		"pagination": utils.NewPaginationResponse(params, total),
	})
}

// GetChat returns chat details. Access is enforced by RequireChatRole.
func (h *ChatHandler) GetChat(c *gin.Context) {
	chat, exists := middleware.GetChat(c)
	if !exists {
		apierrors.InternalError(c, "Chat not loaded")
		return
	}

	c.JSON(http.StatusOK, dto.ToChatDTO(*chat))
}

// LeaveChat removes the caller from the chat's active members.
func (h *ChatHandler) LeaveChat(c *gin.Context) {
	chat, exists := middleware.GetChat(c)
	if !exists {
		apierrors.InternalError(c, "Chat not loaded")
		return
	}

	userID, _ := middleware.GetUserID(c)
	if err := h.chatService.LeaveChat(chat.ID, userID); err != nil {
		respondChatError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListBannedMembers returns the chat-banned members. Moderator only.
func (h *ChatHandler) ListBannedMembers(c *gin.Context) {
	chat, exists := middleware.GetChat(c)
	if !exists {
		apierrors.InternalError(c, "Chat not loaded")
		return
	}

	userID, _ := middleware.GetUserID(c)
	members, err := h.chatService.ListBannedMembers(chat.ID, userID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	results := make([]dto.ChatMemberDTO, len(members))
	for i, member := range members {
		results[i] = dto.ToChatMemberDTO(member)
	}

	c.JSON(http.StatusOK, gin.H{"results": results})
}

// BanMember applies a chat-scoped ban to a member. Moderator only.
func (h *ChatHandler) BanMember(c *gin.Context) {
	h.moderateMember(c, h.chatService.BanMember)
}

// UnbanMember lifts a chat-scoped ban. Moderator only.
func (h *ChatHandler) UnbanMember(c *gin.Context) {
	h.moderateMember(c, h.chatService.UnbanMember)
}

func (h *ChatHandler) moderateMember(c *gin.Context, action func(chatID, actorID, targetID uint64) (*models.ChatMember, error)) {
	chat, exists := middleware.GetChat(c)
	if !exists {
		apierrors.InternalError(c, "Chat not loaded")
		return
	}

	actorID, _ := middleware.GetUserID(c)
	targetID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid user ID")
		return
	}

	member, err := action(chat.ID, actorID, targetID)
	if err != nil {
		respondChatError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToChatMemberDTO(*member))
}

func respondChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrInvalidChatName):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrChatAccessDenied),
		errors.Is(err, services.ErrCannotModerateSelf):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrChatNotFound),
		errors.Is(err, services.ErrChatMemberNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
