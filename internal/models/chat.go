package models

import (
	"time"
)

type Chat struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	OwnerID   uint64    `gorm:"not null" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	IsClosed  bool      `gorm:"not null;default:false" json:"is_closed"`

	// MembersCount tracks active (not left) members and is maintained
	// alongside every membership insert, rejoin and leave.
	MembersCount int64 `gorm:"not null;default:1" json:"members_count"`

	// Relations
	Owner   User         `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members []ChatMember `gorm:"foreignKey:ChatID" json:"members,omitempty"`
}
