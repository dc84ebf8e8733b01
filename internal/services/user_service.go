package services

import (
	"errors"
	"fmt"

	"github.com/nelttjen/chat-platform-api/internal/config"
	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/repository"
	"gorm.io/gorm"
)

var (
	// ErrPasswordMismatch is returned when the supplied current password does
	// not verify on a password change. Distinct from ErrBadCredentials: the
	// caller is already authenticated.
	ErrPasswordMismatch   = errors.New("current password is incorrect")
	ErrCannotBanSelf      = errors.New("users cannot ban themselves")
	ErrCannotBanSuperuser = errors.New("superusers cannot be banned")
)

// UserService handles profile updates and administrative user bans.
type UserService struct {
	users  repository.UserRepository
	hasher PasswordHasher

	passwordPolicyEnabled bool
}

// NewUserService creates a new UserService.
func NewUserService(users repository.UserRepository, hasher PasswordHasher, cfg *config.Config) *UserService {
	return &UserService{
		users:                 users,
		hasher:                hasher,
		passwordPolicyEnabled: cfg.PasswordPolicyEnabled,
	}
}

// GetUser retrieves a user by ID.
func (s *UserService) GetUser(id uint64) (*models.User, error) {
	user, err := s.users.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// UpdateProfileInput holds optional credential changes; nil fields are left
// untouched.
type UpdateProfileInput struct {
	Username *string
	Email    *string
}

// UpdateProfile changes the username and/or email after re-running the
// relevant format validators and re-checking uniqueness against other users.
func (s *UserService) UpdateProfile(user *models.User, input UpdateProfileInput) (*models.User, error) {
	username := user.Username
	email := user.Email

	if input.Username != nil {
		if err := ValidateUsername(*input.Username); err != nil {
			return nil, err
		}
		username = *input.Username
	}
	if input.Email != nil {
		if err := ValidateEmail(*input.Email); err != nil {
			return nil, err
		}
		email = *input.Email
	}

	if err := s.users.CredentialsAvailable(email, username, &user.ID); err != nil {
		return nil, translateTakenError(err)
	}

	user.Username = username
	user.Email = email

	if err := s.users.Update(user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if checkErr := s.users.CredentialsAvailable(email, username, &user.ID); checkErr != nil {
				return nil, translateTakenError(checkErr)
			}
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ChangePassword verifies the caller's current password, re-runs the
// password policy over the new one and stores the new digest.
func (s *UserService) ChangePassword(user *models.User, currentPassword, newPassword string) error {
	if !s.hasher.Verify(currentPassword, user.PasswordHash) {
		return ErrPasswordMismatch
	}

	if s.passwordPolicyEnabled {
		if err := ValidatePassword(newPassword, user.Username, user.Email); err != nil {
			return err
		}
	}

	digest, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = digest
	if err := s.users.Update(user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return nil
}

// BanUser marks the target as banned, recording who banned them and why.
// Staff access is the caller's responsibility; the invariants enforced here
// are that nobody bans themselves and superusers are never banned.
func (s *UserService) BanUser(actor *models.User, targetID uint64, reason string) (*models.User, error) {
	if actor.ID == targetID {
		return nil, ErrCannotBanSelf
	}

	target, err := s.GetUser(targetID)
	if err != nil {
		return nil, err
	}
	if target.IsSuperuser {
		return nil, ErrCannotBanSuperuser
	}

	target.IsBanned = true
	target.BannedBy = &actor.ID
	if reason != "" {
		target.BanReason = &reason
	} else {
		target.BanReason = nil
	}

	if err := s.users.Update(target); err != nil {
		return nil, fmt.Errorf("failed to ban user: %w", err)
	}

	return target, nil
}

// UnbanUser lifts a global ban.
func (s *UserService) UnbanUser(targetID uint64) (*models.User, error) {
	target, err := s.GetUser(targetID)
	if err != nil {
		return nil, err
	}

	target.IsBanned = false
	target.BannedBy = nil
	target.BanReason = nil

	if err := s.users.Update(target); err != nil {
		return nil, fmt.Errorf("failed to unban user: %w", err)
	}

	return target, nil
}
