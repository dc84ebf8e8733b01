package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/repository"
	"github.com/nelttjen/chat-platform-api/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	// ErrChatAccessDenied is returned when the user has no active membership
	// in the chat or their role is below the required one.
	ErrChatAccessDenied   = errors.New("you are not invited to this chat")
	ErrChatMemberNotFound = errors.New("chat member not found")
	ErrCannotModerateSelf = errors.New("cannot moderate yourself")
	ErrInvalidChatName    = errors.New("chat name cannot be empty")
)

// ChatService provides chat lookups and the single authorization gate used
// by every chat-scoped operation.
type ChatService struct {
	chats repository.ChatRepository
}

// NewChatService creates a new ChatService.
func NewChatService(chats repository.ChatRepository) *ChatService {
	return &ChatService{chats: chats}
}

// CreateChat creates a chat and makes the owner an admin member atomically.
func (s *ChatService) CreateChat(ownerID uint64, name string) (*models.Chat, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidChatName
	}

	chat := &models.Chat{
		Name:         name,
		OwnerID:      ownerID,
		MembersCount: 1,
	}

	member := &models.ChatMember{
		UserID:     ownerID,
		Role:       models.RoleAdmin,
		LastActive: time.Now().UTC(),
	}

	if err := s.chats.CreateWithOwner(chat, member); err != nil {
		return nil, fmt.Errorf("failed to create chat: %w", err)
	}

	return chat, nil
}

// GetChat retrieves a chat by ID.
func (s *ChatService) GetChat(chatID uint64) (*models.Chat, error) {
	chat, err := s.chats.FindByID(chatID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, fmt.Errorf("failed to find chat: %w", err)
	}
	return chat, nil
}

// CheckAccess is the role gate: it fails unless the user holds an active,
// unbanned membership in the chat with at least the required role.
func (s *ChatService) CheckAccess(chatID, userID uint64, required models.Role) error {
	ok, err := s.chats.HasAccess(chatID, userID, required)
	if err != nil {
		return fmt.Errorf("failed to check chat access: %w", err)
	}
	if !ok {
		return ErrChatAccessDenied
	}
	return nil
}

// ListUserChats returns the user's active memberships with their chats.
func (s *ChatService) ListUserChats(userID uint64, params utils.PaginationParams) ([]models.ChatMember, int64, error) {
	memberships, total, err := s.chats.ListUserChats(userID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list chats: %w", err)
	}
	return memberships, total, nil
}

// LeaveChat marks the user's membership as left. The row survives, so a
// later rejoin restores the same role and message history.
func (s *ChatService) LeaveChat(chatID, userID uint64) error {
	if err := s.chats.Leave(chatID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrChatAccessDenied
		}
		return fmt.Errorf("failed to leave chat: %w", err)
	}
	return nil
}

// BanMember applies a chat-scoped ban. The actor needs at least moderator
// role and a strictly higher role than the target.
func (s *ChatService) BanMember(chatID, actorID, targetID uint64) (*models.ChatMember, error) {
	return s.setMemberBan(chatID, actorID, targetID, true)
}

// UnbanMember lifts a chat-scoped ban under the same role rules as BanMember.
func (s *ChatService) UnbanMember(chatID, actorID, targetID uint64) (*models.ChatMember, error) {
	return s.setMemberBan(chatID, actorID, targetID, false)
}

func (s *ChatService) setMemberBan(chatID, actorID, targetID uint64, banned bool) (*models.ChatMember, error) {
	if actorID == targetID {
		return nil, ErrCannotModerateSelf
	}

	if err := s.CheckAccess(chatID, actorID, models.RoleModer); err != nil {
		return nil, err
	}

	actor, err := s.chats.FindMember(chatID, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to find actor membership: %w", err)
	}

	target, err := s.chats.FindMember(chatID, targetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatMemberNotFound
		}
		return nil, fmt.Errorf("failed to find target membership: %w", err)
	}

	if target.Role >= actor.Role {
		return nil, ErrChatAccessDenied
	}

	target.IsBanned = banned
	if err := s.chats.UpdateMember(target); err != nil {
		return nil, fmt.Errorf("failed to update membership: %w", err)
	}

	return target, nil
}

// ListBannedMembers returns the chat-banned members. Requires moderator role.
func (s *ChatService) ListBannedMembers(chatID, requesterID uint64) ([]models.ChatMember, error) {
	if err := s.CheckAccess(chatID, requesterID, models.RoleModer); err != nil {
		return nil, err
	}

	members, err := s.chats.ListBannedMembers(chatID)
	if err != nil {
		return nil, fmt.Errorf("failed to list banned members: %w", err)
	}
	return members, nil
}
