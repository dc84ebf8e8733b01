package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nelttjen/chat-platform-api/internal/dto"
	apierrors "github.com/nelttjen/chat-platform-api/internal/errors"
	"github.com/nelttjen/chat-platform-api/internal/middleware"
	"github.com/nelttjen/chat-platform-api/internal/services"
	"github.com/nelttjen/chat-platform-api/internal/utils"
)

// InviteLinkHandler coordinates invite link HTTP handlers.
type InviteLinkHandler struct {
	linkService *services.InviteLinkService
}

// NewInviteLinkHandler creates a new InviteLinkHandler.
func NewInviteLinkHandler(linkService *services.InviteLinkService) *InviteLinkHandler {
	return &InviteLinkHandler{
		linkService: linkService,
	}
}

// CreateLink mints a new invite link for the chat. Moderator only.
func (h *InviteLinkHandler) CreateLink(c *gin.Context) {
	chat, exists := middleware.GetChat(c)
	if !exists {
		apierrors.InternalError(c, "Chat not loaded")
		return
	}

	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	type CreateLinkRequest struct {
		MaxUses   *int       `json:"max_uses"`
		ExpiresAt *time.Time `json:"expires_at"`
	}

	var req CreateLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	link, err := h.linkService.CreateLink(chat, user, req.MaxUses, req.ExpiresAt)
	if err != nil {
		respondInviteLinkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToInviteLinkDTO(*link))
}

// ListLinks returns the chat's invite links. Moderator only. Expired links
// are excluded unless exclude_expired=false is passed.
func (h *InviteLinkHandler) ListLinks(c *gin.Context) {
	chat, exists := middleware.GetChat(c)
	if !exists {
		apierrors.InternalError(c, "Chat not loaded")
		return
	}

	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	excludeExpired, err := strconv.ParseBool(c.DefaultQuery("exclude_expired", "true"))
	if err != nil {
		apierrors.BadRequest(c, "Invalid exclude_expired value")
		return
	}

	params := utils.GetPaginationParams(c)
	links, total, err := h.linkService.ListLinks(chat, user, excludeExpired, params)
	if err != nil {
		respondInviteLinkError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToInviteLinkPageDTO(links, params, total))
}

// Redeem joins the caller to the chat behind the link token.
func (h *InviteLinkHandler) Redeem(c *gin.Context) {
	user, exists := middleware.GetUser(c)
	if !exists {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}

	member, err := h.linkService.Redeem(c.Param("token"), user)
	if err != nil {
		respondInviteLinkError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToChatMemberDTO(*member))
}

func respondInviteLinkError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrLinkExpired),
		errors.Is(err, services.ErrInvalidLinkArgs):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrChatAccessDenied),
		errors.Is(err, services.ErrChatBanned):
		apierrors.Forbidden(c, err.Error())
	case errors.Is(err, services.ErrAlreadyMember):
		apierrors.Conflict(c, err.Error())
	case errors.Is(err, services.ErrLinkNotFound):
		apierrors.NotFound(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
