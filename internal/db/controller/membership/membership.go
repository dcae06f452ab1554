// Package membership stores groups and the users belonging to them.
//
// Every function takes the *gorm.DB to run on, so callers can pass a transaction
// handle to combine several calls into one unit of work.
package membership

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/splitledger/splitledger/internal/db/models"
)

const (
	groupMemberPattern = "group_id = ? AND user_id = ?"
)

var (
	// ErrGroupNotFound is returned when a group does not exist, or when it exists
	// but the requesting user is not a member of it.
	ErrGroupNotFound = errors.New("group does not exist or user is not a member")
	// ErrGroupNameEmpty is returned when a group would get an empty name.
	ErrGroupNameEmpty = errors.New("group name cannot be empty")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// CreateGroup allocates a new group. Names do not need to be unique.
func CreateGroup(db *gorm.DB, name string) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if strings.TrimSpace(name) == "" {
		return nil, ErrGroupNameEmpty
	}

	group := &models.Group{Name: name}
	if err := db.Create(group).Error; err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	return group, nil
}

// CreateGroupWithMembers creates a group and its memberships in one transaction.
// Duplicate user ids are inserted once.
func CreateGroupWithMembers(db *gorm.DB, name string, userIDs []uint64) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var group *models.Group

	err := db.Transaction(func(tx *gorm.DB) error {
		var err error

		group, err = CreateGroup(tx, name)
		if err != nil {
			return err
		}

		seen := make(map[uint64]struct{}, len(userIDs))

		for _, userID := range userIDs {
			if _, ok := seen[userID]; ok {
				continue
			}

			seen[userID] = struct{}{}

			if err = AddMember(tx, group.ID, userID); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return group, nil
}

// AddMember adds a user to a group. Adding an existing member is a no-op,
// also when two requests add the same member concurrently.
func AddMember(db *gorm.DB, groupID, userID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	member := models.GroupMember{GroupID: groupID, UserID: userID}

	err := db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&member).Error
	if err != nil {
		return fmt.Errorf("failed to add member %d to group %d: %w", userID, groupID, err)
	}

	return nil
}

// RemoveMember removes a user from a group. Removing a non-member is a no-op.
func RemoveMember(db *gorm.DB, groupID, userID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	if !models.StorableID(groupID) || !models.StorableID(userID) {
		return nil
	}

	err := db.Where(groupMemberPattern, groupID, userID).
		Delete(&models.GroupMember{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove member %d from group %d: %w", userID, groupID, err)
	}

	return nil
}

// IsMember reports whether the user belongs to the group.
// A missing group simply has no members.
func IsMember(db *gorm.DB, groupID, userID uint64) (bool, error) {
	if db == nil {
		return false, ErrDBNil
	}

	if !models.StorableID(groupID) || !models.StorableID(userID) {
		return false, nil
	}

	var count int64

	err := db.Model(&models.GroupMember{}).
		Where(groupMemberPattern, groupID, userID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	return count > 0, nil
}

// GetGroupForMember returns the group if userID is a member of it.
// A missing group and a group the user does not belong to both yield ErrGroupNotFound.
func GetGroupForMember(db *gorm.DB, groupID, userID uint64) (*models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !models.StorableID(groupID) || !models.StorableID(userID) {
		return nil, ErrGroupNotFound
	}

	var group models.Group

	err := db.Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("groups.id = ? AND group_members.user_id = ?", groupID, userID).
		First(&group).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGroupNotFound
		}

		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return &group, nil
}

// ListGroupsOf returns the groups a user belongs to, ordered by id.
func ListGroupsOf(db *gorm.DB, userID uint64) ([]models.Group, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var groups []models.Group

	err := db.Joins("JOIN group_members ON group_members.group_id = groups.id").
		Where("group_members.user_id = ?", userID).
		Order("groups.id").
		Find(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	return groups, nil
}

// ListMembers returns the users of a group, ordered by id.
func ListMembers(db *gorm.DB, groupID uint64) ([]models.User, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var users []models.User

	err := db.Joins("JOIN group_members ON group_members.user_id = users.id").
		Where("group_members.group_id = ?", groupID).
		Order("users.id").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return users, nil
}

// MemberIDs returns the user ids of a group, ordered.
func MemberIDs(db *gorm.DB, groupID uint64) ([]uint64, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var ids []uint64

	err := db.Model(&models.GroupMember{}).
		Where("group_id = ?", groupID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list member ids: %w", err)
	}

	return ids, nil
}

// RenameGroup changes the name of a group.
func RenameGroup(db *gorm.DB, groupID uint64, name string) error {
	if db == nil {
		return ErrDBNil
	}

	if strings.TrimSpace(name) == "" {
		return ErrGroupNameEmpty
	}

	result := db.Model(&models.Group{}).
		Where("id = ?", groupID).
		Update("name", name)
	if result.Error != nil {
		return fmt.Errorf("failed to rename group: %w", result.Error)
	}

	if result.RowsAffected == 0 {
		return ErrGroupNotFound
	}

	return nil
}

// DeleteGroup removes a group and all of its memberships.
// Memberships are deleted explicitly so the cascade does not depend on the
// engine enforcing foreign keys.
func DeleteGroup(db *gorm.DB, groupID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("group_id = ?", groupID).Delete(&models.GroupMember{}).Error; err != nil {
			return fmt.Errorf("failed to delete memberships: %w", err)
		}

		result := tx.Delete(&models.Group{}, groupID)
		if result.Error != nil {
			return fmt.Errorf("failed to delete group: %w", result.Error)
		}

		if result.RowsAffected == 0 {
			return ErrGroupNotFound
		}

		return nil
	})
}
