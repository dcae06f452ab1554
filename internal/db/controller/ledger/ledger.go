// Package ledger stores directed debts between users.
//
// Debts carry no group. Queries scope them to a set of users, an edge is
// returned only when both of its endpoints are inside the set.
package ledger

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/db/models"
)

var (
	// ErrInvalidAmount is returned when a debt amount is not positive.
	ErrInvalidAmount = errors.New("debt amount must be positive")
	// ErrSelfDebt is returned when debtor and creditor are the same user.
	ErrSelfDebt = errors.New("debtor and creditor must differ")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// RecordDebt stores that debtorID owes creditorID amount minor units.
func RecordDebt(db *gorm.DB, debtorID, creditorID uint64, amount int64) (*models.Debt, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	if debtorID == creditorID {
		return nil, ErrSelfDebt
	}

	debt := &models.Debt{
		DebtorID:   debtorID,
		CreditorID: creditorID,
		Amount:     amount,
	}

	if err := db.Create(debt).Error; err != nil {
		return nil, fmt.Errorf("failed to record debt: %w", err)
	}

	return debt, nil
}

// EdgesTouching returns every debt whose debtor and creditor are both in userIDs.
func EdgesTouching(db *gorm.DB, userIDs []uint64) ([]models.Debt, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if len(userIDs) == 0 {
		return nil, nil
	}

	var debts []models.Debt

	err := db.Where("debtor_id IN ? AND creditor_id IN ?", userIDs, userIDs).
		Order("id").
		Find(&debts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load debts: %w", err)
	}

	return debts, nil
}

// EdgesOf returns the debts between userID and any of counterparties, in both directions.
func EdgesOf(db *gorm.DB, userID uint64, counterparties []uint64) ([]models.Debt, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if len(counterparties) == 0 {
		return nil, nil
	}

	var debts []models.Debt

	err := db.Where("(debtor_id = ? AND creditor_id IN ?) OR (creditor_id = ? AND debtor_id IN ?)",
		userID, counterparties, userID, counterparties).
		Order("id").
		Find(&debts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load debts of user %d: %w", userID, err)
	}

	return debts, nil
}

// EdgesWithinGroup returns the debts between current members of a group.
// Membership is evaluated by the query itself, so a member leaving hides
// their debts from the group immediately.
func EdgesWithinGroup(db *gorm.DB, groupID uint64) ([]models.Debt, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	if !models.StorableID(groupID) {
		return nil, nil
	}

	members := func() *gorm.DB {
		return db.Model(&models.GroupMember{}).Select("user_id").Where("group_id = ?", groupID)
	}

	var debts []models.Debt

	err := db.Where("debtor_id IN (?) AND creditor_id IN (?)", members(), members()).
		Order("id").
		Find(&debts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load debts of group %d: %w", groupID, err)
	}

	return debts, nil
}
