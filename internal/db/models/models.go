package models

import "math"

// All returns every model managed by AutoMigrate, in dependency order.
func All() []any {
	return []any{
		&User{},
		&Group{},
		&GroupMember{},
		&Debt{},
	}
}

// StorableID reports whether id fits the signed 64 bit primary key columns.
// Larger ids can not exist, and database/sql refuses them as arguments.
func StorableID(id uint64) bool {
	return id <= math.MaxInt64
}
