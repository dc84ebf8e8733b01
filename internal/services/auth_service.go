package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/nelttjen/chat-platform-api/internal/config"
	"github.com/nelttjen/chat-platform-api/internal/models"
	"github.com/nelttjen/chat-platform-api/internal/repository"
	"github.com/nelttjen/chat-platform-api/internal/token"
	"gorm.io/gorm"
)

var (
	// ErrBadCredentials covers both an unknown identifier and a wrong
	// password, so callers cannot probe which accounts exist.
	ErrBadCredentials = errors.New("invalid username or password")
	// ErrBadToken covers malformed, forged, expired and wrong-type tokens
	// uniformly at the service boundary.
	ErrBadToken = errors.New("token expired or incorrect")
	// ErrForbidden is returned when a user fails the ban gate or lacks a
	// required capability.
	ErrForbidden     = errors.New("forbidden")
	ErrUsernameTaken = errors.New("user with this username already exists")
	ErrEmailTaken    = errors.New("user with this email already exists")
	ErrUserNotFound  = errors.New("user not found")
)

// Capability names a boolean flag on the user record that a caller may
// require in addition to a valid token.
type Capability string

const (
	CapabilityActive    Capability = "is_active"
	CapabilityStaff     Capability = "is_staff"
	CapabilitySuperuser Capability = "is_superuser"
)

// TokenPair is an access token and a refresh token issued together.
type TokenPair struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

// AuthService authenticates credentials, issues token pairs and resolves
// users from presented tokens, applying the ban gate on every resolved user.
type AuthService struct {
	users  repository.UserRepository
	codec  *token.Codec
	hasher PasswordHasher

	accessTTL  time.Duration
	refreshTTL time.Duration

	passwordPolicyEnabled bool
}

// NewAuthService creates a new AuthService.
func NewAuthService(users repository.UserRepository, codec *token.Codec, hasher PasswordHasher, cfg *config.Config) *AuthService {
	return &AuthService{
		users:                 users,
		codec:                 codec,
		hasher:                hasher,
		accessTTL:             time.Duration(cfg.AccessTokenTTLMinutes) * time.Minute,
		refreshTTL:            time.Duration(cfg.RefreshTokenTTLMinutes) * time.Minute,
		passwordPolicyEnabled: cfg.PasswordPolicyEnabled,
	}
}

// GenerateTokens mints a fresh access/refresh pair for the user.
func (s *AuthService) GenerateTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := s.codec.Issue(user.ID, user.Username, token.TypeAccess, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue access token: %w", err)
	}

	refreshToken, err := s.codec.Issue(user.ID, user.Username, token.TypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to issue refresh token: %w", err)
	}

	return &TokenPair{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Authenticate verifies the identifier/password pair and issues tokens.
// The identifier matches the username case-insensitively or the email
// exactly.
func (s *AuthService) Authenticate(identifier, password string) (*TokenPair, error) {
	user, err := s.users.FindByLoginIdentifier(identifier)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrBadCredentials
	}

	if user.IsBanned {
		return nil, s.bannedError(user)
	}

	return s.GenerateTokens(user)
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register validates the input, creates the user and issues tokens.
func (s *AuthService) Register(input RegisterInput) (*TokenPair, error) {
	if err := ValidateUsername(input.Username); err != nil {
		return nil, err
	}
	if err := ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if s.passwordPolicyEnabled {
		if err := ValidatePassword(input.Password, input.Username, input.Email); err != nil {
			return nil, err
		}
	}

	if err := s.users.CredentialsAvailable(input.Email, input.Username, nil); err != nil {
		return nil, translateTakenError(err)
	}

	digest, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: digest,
		IsActive:     true,
	}

	if err := s.users.Create(user); err != nil {
		// A race between the availability check and the insert surfaces as a
		// uniqueness violation; report it as the taken-credential error.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if checkErr := s.users.CredentialsAvailable(input.Email, input.Username, nil); checkErr != nil {
				return nil, translateTakenError(checkErr)
			}
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.GenerateTokens(user)
}

// RefreshTokens validates a refresh token and issues a brand-new pair.
// Refresh tokens are not rotated: the presented token stays usable until its
// natural expiry, so multiple valid refresh tokens may be outstanding.
func (s *AuthService) RefreshTokens(refreshToken string) (*TokenPair, error) {
	user, err := s.ResolveUserFromToken(refreshToken, token.TypeRefresh)
	if err != nil {
		return nil, err
	}

	return s.GenerateTokens(user)
}

// ValidateAccessToken checks that a bearer access token is still good. It
// has no side effects and does not touch storage.
func (s *AuthService) ValidateAccessToken(accessToken string) error {
	claims, err := s.codec.Decode(accessToken)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	if err := s.codec.Validate(claims, token.TypeAccess); err != nil {
		return fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	return nil
}

// ResolveUserFromToken decodes and validates the token, loads the user and
// applies the ban gate. Any required capabilities must all be present on the
// user or the call fails.
func (s *AuthService) ResolveUserFromToken(tokenStr string, typ token.Type, require ...Capability) (*models.User, error) {
	claims, err := s.codec.Decode(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	if err := s.codec.Validate(claims, typ); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBadToken
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if user.IsBanned {
		return nil, s.bannedError(user)
	}

	for _, capability := range require {
		if !hasCapability(user, capability) {
			return nil, fmt.Errorf("%w: missing required capability %s", ErrForbidden, capability)
		}
	}

	return user, nil
}

func hasCapability(user *models.User, capability Capability) bool {
	switch capability {
	case CapabilityActive:
		return user.IsActive
	case CapabilityStaff:
		return user.IsStaff
	case CapabilitySuperuser:
		return user.IsSuperuser
	default:
		return false
	}
}

// bannedError builds the Forbidden error for a banned user. The banning
// admin's username and the stored reason are appended only when available.
func (s *AuthService) bannedError(user *models.User) error {
	message := "account is banned"

	if user.BannedBy != nil {
		if admin, err := s.users.FindByID(*user.BannedBy); err == nil {
			message += fmt.Sprintf(" by %s", admin.Username)
		}
	}
	if user.BanReason != nil && *user.BanReason != "" {
		message += fmt.Sprintf(": %s", *user.BanReason)
	}

	return fmt.Errorf("%w: %s", ErrForbidden, message)
}

func translateTakenError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUsernameExists):
		return ErrUsernameTaken
	case errors.Is(err, repository.ErrEmailExists):
		return ErrEmailTaken
	default:
		return fmt.Errorf("failed to check credentials: %w", err)
	}
}
