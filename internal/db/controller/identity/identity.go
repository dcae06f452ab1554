// Package identity resolves the user references found in requests to stored users.
package identity

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/db/models"
)

var (
	// ErrUserNotFound is returned when no user matches the reference.
	ErrUserNotFound = errors.New("user not found")
	// ErrSpecEmpty is returned when a reference carries neither an id nor a handle.
	ErrSpecEmpty = errors.New("user reference has neither an id nor a username or email")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Spec references a user either by id or by a handle matching username or email.
// ID wins when both are set.
type Spec struct {
	ID     *uint64
	Handle *string
}

// ByID returns a Spec referencing a user id.
func ByID(id uint64) Spec {
	return Spec{ID: &id}
}

// ByHandle returns a Spec referencing a username or email.
func ByHandle(handle string) Spec {
	return Spec{Handle: &handle}
}

// Empty reports whether the Spec references nothing.
func (s Spec) Empty() bool {
	return s.ID == nil && s.Handle == nil
}

// Resolve looks up the user a Spec references. It never writes.
func Resolve(db *gorm.DB, spec Spec) (*models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var (
		user   models.User
		result *gorm.DB
	)

	switch {
	case spec.ID != nil && !models.StorableID(*spec.ID):
		return nil, ErrUserNotFound
	case spec.ID != nil:
		result = db.First(&user, *spec.ID)
	case spec.Handle != nil:
		// a handle may hit one user's username and another one's email, lowest id wins
		result = db.Where("username = ? OR email = ?", *spec.Handle, *spec.Handle).
			Order("id").
			First(&user)
	default:
		return nil, ErrSpecEmpty
	}

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to resolve user: %w", result.Error)
	}

	return &user, nil
}

// ResolveID is Resolve for callers that only need the id.
func ResolveID(db *gorm.DB, spec Spec) (uint64, error) {
	user, err := Resolve(db, spec)
	if err != nil {
		return 0, err
	}

	return user.ID, nil
}
