package models

import "time"

// GroupMember represents the many-to-many relationship between users and groups.
// The composite primary key makes a (group, user) pair unique.
type GroupMember struct {
	// GroupID is the ID of the group in this membership.
	GroupID uint64 `gorm:"primaryKey;column:group_id"`
	// UserID is the ID of the user in this membership.
	UserID uint64 `gorm:"primaryKey;column:user_id;index"`
	// Group is the associated group.
	// When a group is deleted, all memberships in that group are removed (CASCADE).
	Group Group `gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE" json:"-"`
	// User is the associated user.
	// When a user is deleted, all their memberships are removed (CASCADE).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	// CreatedAt is the timestamp when the user joined the group (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the GroupMember model.
func (GroupMember) TableName() string {
	return "group_members"
}
