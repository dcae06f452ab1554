package models

import "time"

// Group is a named set of users sharing expenses.
// Names are not unique. A group left without members stays in place until it is deleted.
type Group struct {
	// ID is the unique identifier for the group.
	ID uint64 `gorm:"primaryKey"`
	// Name is the display name of the group.
	Name string `gorm:"size:100;not null"`
	// CreatedAt is the timestamp when the group was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the group was last renamed (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Group model.
// This overrides GORM's default pluralized table naming.
func (Group) TableName() string {
	return "groups"
}
