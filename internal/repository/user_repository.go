package repository

import (
	"errors"
	"strings"

	"github.com/nelttjen/chat-platform-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrUsernameExists is returned when a username is already registered,
	// compared case-insensitively.
	ErrUsernameExists = errors.New("user repository: username already exists")
	// ErrEmailExists is returned when an email is already registered.
	ErrEmailExists = errors.New("user repository: email already exists")
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &GormUserRepository{db: db}
}

// Create creates a new user
func (r *GormUserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update persists changes to an existing user
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByLoginIdentifier finds a user by case-insensitive username or exact email
func (r *GormUserRepository) FindByLoginIdentifier(identifier string) (*models.User, error) {
	var user models.User
	if err := r.db.
		Where("LOWER(username) = ? OR email = ?", strings.ToLower(identifier), identifier).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// CredentialsAvailable checks username and email uniqueness in one query
func (r *GormUserRepository) CredentialsAvailable(email, username string, excludeUserID *uint64) error {
	query := r.db.Model(&models.User{}).
		Where("email = ? OR LOWER(username) = ?", email, strings.ToLower(username))
	if excludeUserID != nil {
		query = query.Where("id <> ?", *excludeUserID)
	}

	var existing models.User
	err := query.First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if strings.EqualFold(existing.Username, username) {
		return ErrUsernameExists
	}
	return ErrEmailExists
}
