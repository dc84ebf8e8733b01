package repository

import (
	"time"

	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/utils"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(user *models.User) error

	// Update persists changes to an existing user
	Update(user *models.User) error

	// FindByID finds a user by ID
	FindByID(id uint64) (*models.User, error)

	// FindByLoginIdentifier finds a user whose username matches
	// case-insensitively or whose email matches exactly
	FindByLoginIdentifier(identifier string) (*models.User, error)

	// CredentialsAvailable returns ErrUsernameExists or ErrEmailExists when
	// the given credentials collide with another user. excludeUserID skips
	// the user's own row on profile updates.
	CredentialsAvailable(email, username string, excludeUserID *uint64) error
}

// ChatRepository defines the interface for chat and membership data access
type ChatRepository interface {
	// CreateWithOwner creates a chat and the owner's admin membership atomically
	CreateWithOwner(chat *models.Chat, member *models.ChatMember) error

	// FindByID finds a chat by ID
	FindByID(id uint64) (*models.Chat, error)

	// FindMember finds the membership row for (chat, user), left or banned
	// rows included
	FindMember(chatID, userID uint64) (*models.ChatMember, error)

	// HasAccess reports whether the user holds an active, unbanned membership
	// with at least the given role
	HasAccess(chatID, userID uint64, minRole models.Role) (bool, error)

	// ListUserChats lists active memberships of a user with their chats
	ListUserChats(userID uint64, params utils.PaginationParams) ([]models.ChatMember, int64, error)

	// ListBannedMembers lists chat-banned memberships of a chat
	ListBannedMembers(chatID uint64) ([]models.ChatMember, error)

	// UpdateMember persists changes to a membership row
	UpdateMember(member *models.ChatMember) error

	// Leave marks an active membership as left and decrements the chat's
	// member counter atomically
	Leave(chatID, userID uint64) error
}

// InviteLinkRepository defines the interface for invite link data access
type InviteLinkRepository interface {
	// Create creates a new invite link
	Create(link *models.InviteLink) error

	// FindByToken finds a link by its shareable token
	FindByToken(linkToken string) (*models.InviteLink, error)

	// ListByChat lists links of a chat. When excludeExpired is set, links
	// past their expiry time or out of uses at the given instant are omitted.
	ListByChat(chatID uint64, excludeExpired bool, now time.Time, params utils.PaginationParams) ([]models.InviteLink, int64, error)

	// Redeem atomically consumes one use of the link and activates the
	// membership: an existing row is reactivated, otherwise a fresh row with
	// the default role is created. Returns ErrLinkCapacityExhausted when a
	// concurrent redemption spent the last use first.
	Redeem(link *models.InviteLink, existing *models.ChatMember, userID uint64) (*models.ChatMember, error)
}
