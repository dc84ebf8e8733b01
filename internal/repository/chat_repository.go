package repository

import (
	"errors"
	"fmt"

	"github.com/nelttjen/chat-platform-api/internal/database"
	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/utils"
	"gorm.io/gorm"
)

var (
	// ErrCreateChat is returned when creating a chat fails inside the creation transaction.
	ErrCreateChat = errors.New("chat repository: create chat failed")
	// ErrCreateChatMember is returned when creating the owner membership fails inside the creation transaction.
	ErrCreateChatMember = errors.New("chat repository: create chat member failed")
)

// GormChatRepository is a GORM implementation of ChatRepository
type GormChatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new ChatRepository
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &GormChatRepository{db: db}
}

// CreateWithOwner creates a chat and the owner's membership atomically
func (r *GormChatRepository) CreateWithOwner(chat *models.Chat, member *models.ChatMember) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(chat).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateChat, err)
		}

		member.ChatID = chat.ID

		if err := tx.Create(member).Error; err != nil {
			return fmt.Errorf("%w: %v", ErrCreateChatMember, err)
		}

		return nil
	})
}

// FindByID finds a chat by ID
func (r *GormChatRepository) FindByID(id uint64) (*models.Chat, error) {
	var chat models.Chat
	if err := r.db.First(&chat, id).Error; err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindMember finds the membership row for (chat, user), including left or banned rows
func (r *GormChatRepository) FindMember(chatID, userID uint64) (*models.ChatMember, error) {
	var member models.ChatMember
	if err := r.db.Where("chat_id = ? AND user_id = ?", chatID, userID).
		First(&member).Error; err != nil {
		return nil, err
	}
	return &member, nil
}

// HasAccess reports whether the user holds an active, unbanned membership
// with at least the given role. Role is integer backed, so the minimum-role
// requirement is a plain comparison in SQL.
func (r *GormChatRepository) HasAccess(chatID, userID uint64, minRole models.Role) (bool, error) {
	var count int64
	err := r.db.Model(&models.ChatMember{}).
		Where("chat_id = ? AND user_id = ?", chatID, userID).
		Where("is_banned = ? AND is_left = ?", false, false).
		Where("role >= ?", minRole).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListUserChats lists active memberships of a user with their chats
func (r *GormChatRepository) ListUserChats(userID uint64, params utils.PaginationParams) ([]models.ChatMember, int64, error) {
	query := r.db.Model(&models.ChatMember{}).
		Where("user_id = ? AND is_left = ? AND is_banned = ?", userID, false, false)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var memberships []models.ChatMember
	if err := query.
		Preload("Chat").
		Order("last_active DESC").
		Scopes(database.Paginate(params)).
		Find(&memberships).Error; err != nil {
		return nil, 0, err
	}

	return memberships, total, nil
}

// ListBannedMembers lists chat-banned memberships of a chat
func (r *GormChatRepository) ListBannedMembers(chatID uint64) ([]models.ChatMember, error) {
	var members []models.ChatMember
	if err := r.db.
		Preload("User").
		Where("chat_id = ? AND is_banned = ?", chatID, true).
		Order("last_active DESC").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

// UpdateMember persists changes to a membership row
func (r *GormChatRepository) UpdateMember(member *models.ChatMember) error {
	return r.db.Save(member).Error
}

// Leave marks an active membership as left and keeps the chat's member
// counter consistent within one transaction.
func (r *GormChatRepository) Leave(chatID, userID uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.ChatMember{}).
			Where("chat_id = ? AND user_id = ? AND is_left = ?", chatID, userID, false).
			Update("is_left", true)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		return tx.Model(&models.Chat{}).
			Where("id = ?", chatID).
			UpdateColumn("members_count", gorm.Expr("members_count - 1")).Error
	})
}
