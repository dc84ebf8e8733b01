package dto

import (
	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/services"
)

// UserDTO represents user information in API responses
type UserDTO struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	IsActive    bool   `json:"is_active"`
	IsStaff     bool   `json:"is_staff"`
	IsSuperuser bool   `json:"is_superuser"`
}

// TokenPairDTO represents an issued access/refresh pair with its user
type TokenPairDTO struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
}

// ToUserDTO converts a user model to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsActive:    user.IsActive,
		IsStaff:     user.IsStaff,
		IsSuperuser: user.IsSuperuser,
	}
}

// ToTokenPairDTO converts an issued token pair to DTO
func ToTokenPairDTO(pair services.TokenPair) TokenPairDTO {
	return TokenPairDTO{
		User:         ToUserDTO(*pair.User),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}
}
