package auth

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/db/models"
)

// LocalProvider manages users stored in the local database.
type LocalProvider struct {
	db *gorm.DB
}

// NewLocalProvider creates a new local user provider.
func NewLocalProvider(db *gorm.DB) *LocalProvider {
	return &LocalProvider{
		db: db,
	}
}

// CreateUser creates a new active local user.
func (p *LocalProvider) CreateUser(username, email, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" || email == "" || password == "" {
		return nil, ErrMissingField
	}

	// Handles are resolved against both columns, so they must not collide across them.
	var existingUser models.User

	err := p.db.Where("username IN ? OR email IN ?", []string{username, email}, []string{username, email}).
		First(&existingUser).Error
	if err == nil {
		return nil, ErrUserNameOrEmailExists
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}

	user := models.User{
		Active:   true,
		Username: username,
		Email:    email,
		Password: models.HashPassword(password),
	}

	if err := p.db.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

// DeactivateUser disables a user account. Sessions of the user are rejected from then on.
func (p *LocalProvider) DeactivateUser(userID uint64) error {
	result := p.db.Model(&models.User{}).
		Where("id = ?", userID).
		Update("active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate user: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}

	return nil
}
