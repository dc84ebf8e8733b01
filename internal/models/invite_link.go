package models

import (
	"time"
)

// InviteLink is a shareable join token for a chat, optionally bounded by an
// expiry time and/or a maximum number of uses. Links are never deleted; they
// only expire naturally.
type InviteLink struct {
	ID      uint64 `gorm:"primarykey" json:"id"`
	Link    string `gorm:"type:varchar(64);uniqueIndex;not null" json:"link"`
	ChatID  uint64 `gorm:"not null;index" json:"chat_id"`
	OwnerID uint64 `gorm:"not null" json:"owner_id"`

	MaxUses   *int       `json:"max_uses"`
	CountUses int        `gorm:"not null;default:0" json:"count_uses"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt *time.Time `json:"expires_at"`

	// Relations
	Chat  Chat `gorm:"foreignKey:ChatID" json:"chat,omitempty"`
	Owner User `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

// IsExpiredAt reports whether the link is unusable at the given instant,
// either because its expiry time passed or its use budget is spent.
func (l *InviteLink) IsExpiredAt(now time.Time) bool {
	timeExpired := l.ExpiresAt != nil && now.After(*l.ExpiresAt)
	usesExhausted := l.MaxUses != nil && l.CountUses >= *l.MaxUses
	return timeExpired || usesExhausted
}

// IsExpired reports whether the link is unusable right now.
func (l *InviteLink) IsExpired() bool {
	return l.IsExpiredAt(time.Now().UTC())
}
