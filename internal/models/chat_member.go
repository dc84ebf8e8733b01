package models

import (
	"time"
)

// Role is the chat membership role. It is integer backed so that privilege
// comparison is a plain ordinal compare, both in Go and in SQL.
type Role int

const (
	RoleUser Role = iota
	RoleModer
	RoleAdmin
)

// HasPermission reports whether a member holding r may perform an action
// requiring at least the given role.
func (r Role) HasPermission(required Role) bool {
	return r >= required
}

func (r Role) String() string {
	switch r {
	case RoleUser:
		return "user"
	case RoleModer:
		return "moderator"
	case RoleAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// ChatMember is a user's relationship to one chat. A (chat, user) pair has at
// most one row: leaving flips IsLeft and rejoining reuses the same row, so
// role and message history survive a leave/rejoin cycle.
type ChatMember struct {
	ID     uint64 `gorm:"primarykey" json:"id"`
	ChatID uint64 `gorm:"not null;uniqueIndex:idx_chat_members_chat_user" json:"chat_id"`
	UserID uint64 `gorm:"not null;uniqueIndex:idx_chat_members_chat_user" json:"user_id"`

	Role          Role      `gorm:"not null;default:0" json:"role"`
	TotalMessages int64     `gorm:"not null;default:0" json:"total_messages"`
	LastActive    time.Time `json:"last_active"`

	IsLeft bool `gorm:"not null;default:false" json:"is_left"`
	// IsBanned is a chat-scoped ban, independent of the global User.IsBanned.
	IsBanned bool `gorm:"not null;default:false" json:"is_banned"`

	// Relations
	Chat Chat `gorm:"foreignKey:ChatID" json:"chat,omitempty"`
	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
