package dto

import (
	"time"

	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/utils"
)

// ChatDTO represents chat information in API responses
type ChatDTO struct {
	ID           uint64    `json:"id"`
	Name         string    `json:"name"`
	OwnerID      uint64    `json:"owner_id"`
	CreatedAt    time.Time `json:"created_at"`
	IsClosed     bool      `json:"is_closed"`
	MembersCount int64     `json:"members_count"`
}

// ChatWithRoleDTO represents a chat together with the caller's role in it
type ChatWithRoleDTO struct {
	ChatDTO
	Role string `json:"role"`
}

// ChatMemberDTO represents a member in a chat
type ChatMemberDTO struct {
	UserID        uint64    `json:"user_id"`
	Role          string    `json:"role"`
	TotalMessages int64     `json:"total_messages"`
	LastActive    time.Time `json:"last_active"`
	IsLeft        bool      `json:"is_left"`
	IsBanned      bool      `json:"is_banned"`
}

// InviteLinkDTO represents an invite link in API responses
type InviteLinkDTO struct {
	ID        uint64     `json:"id"`
	Link      string     `json:"link"`
	ChatID    uint64     `json:"chat_id"`
	OwnerID   uint64     `json:"owner_id"`
	MaxUses   *int       `json:"max_uses"`
	CountUses int        `json:"count_uses"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`
}

// InviteLinkPageDTO is a paginated list of invite links
type InviteLinkPageDTO struct {
	Results    []InviteLinkDTO          `json:"results"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// ToChatDTO converts a chat model to DTO
func ToChatDTO(chat models.Chat) ChatDTO {
	return ChatDTO{
		ID:           chat.ID,
		Name:         chat.Name,
		OwnerID:      chat.OwnerID,
		CreatedAt:    chat.CreatedAt,
		IsClosed:     chat.IsClosed,
		MembersCount: chat.MembersCount,
	}
}

// ToChatWithRoleDTO converts a membership to a chat DTO with the member's role
func ToChatWithRoleDTO(member models.ChatMember) ChatWithRoleDTO {
	return ChatWithRoleDTO{
		ChatDTO: ToChatDTO(member.Chat),
		Role:    member.Role.String(),
	}
}

// ToChatMemberDTO converts a membership model to DTO
func ToChatMemberDTO(member models.ChatMember) ChatMemberDTO {
	return ChatMemberDTO{
		UserID:        member.UserID,
		Role:          member.Role.String(),
		TotalMessages: member.TotalMessages,
		LastActive:    member.LastActive,
		IsLeft:        member.IsLeft,
		IsBanned:      member.IsBanned,
	}
}

// ToInviteLinkDTO converts an invite link model to DTO
func ToInviteLinkDTO(link models.InviteLink) InviteLinkDTO {
	return InviteLinkDTO{
		ID:        link.ID,
		Link:      link.Link,
		ChatID:    link.ChatID,
		OwnerID:   link.OwnerID,
		MaxUses:   link.MaxUses,
		CountUses: link.CountUses,
		CreatedAt: link.CreatedAt,
		ExpiresAt: link.ExpiresAt,
	}
}

// ToInviteLinkPageDTO converts a page of invite links to DTO
func ToInviteLinkPageDTO(links []models.InviteLink, params utils.PaginationParams, total int64) InviteLinkPageDTO {
	results := make([]InviteLinkDTO, len(links))
	for i, link := range links {
		results[i] = ToInviteLinkDTO(link)
	}

	return InviteLinkPageDTO{
		Results:    results,
		Pagination: utils.NewPaginationResponse(params, total),
	}
}
