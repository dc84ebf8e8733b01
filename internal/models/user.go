package models

import (
	"time"
)

type User struct {
	ID           uint64 `gorm:"primarykey" json:"id"`
	Username     string `gorm:"type:varchar(128);uniqueIndex;not null" json:"username"`
	Email        string `gorm:"type:varchar(320);uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"type:varchar(1024);not null" json:"-"`

	IsActive    bool `gorm:"not null;default:true" json:"is_active"`
	IsStaff     bool `gorm:"not null;default:false" json:"is_staff"`
	IsSuperuser bool `gorm:"not null;default:false" json:"is_superuser"`
	IsBanned    bool `gorm:"not null;default:false" json:"is_banned"`

	BanReason *string `gorm:"type:varchar(1024)" json:"-"`
	BannedBy  *uint64 `json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	OwnedChats  []Chat       `gorm:"foreignKey:OwnerID" json:"-"`
	Memberships []ChatMember `gorm:"foreignKey:UserID" json:"-"`
}
