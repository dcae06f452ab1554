package models

import "time"

// Debt is a directed edge meaning the debtor owes the creditor Amount minor currency units.
// Debts are not owned by a group. A debt counts inside a group only while
// both endpoints are members of it.
type Debt struct {
	ID uint64 `gorm:"primaryKey"`
	// DebtorID is the user who owes.
	DebtorID uint64 `gorm:"column:debtor_id;not null;index"`
	// CreditorID is the user who is owed.
	CreditorID uint64 `gorm:"column:creditor_id;not null;index"`
	// Amount is always positive, in cents.
	Amount int64 `gorm:"not null"`

	Debtor   User `gorm:"foreignKey:DebtorID;constraint:OnDelete:CASCADE" json:"-"`
	Creditor User `gorm:"foreignKey:CreditorID;constraint:OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time
}

// TableName specifies the database table name for the Debt model.
func (Debt) TableName() string {
	return "debts"
}
