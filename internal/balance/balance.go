// Package balance turns the debts between group members into net balances.
//
// A NetBalance is positive when the user is owed money and negative when the
// user owes money. Only debts whose debtor and creditor are both current
// members of the group count.
package balance

import (
	"errors"

	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/db/controller/ledger"
	"github.com/splitledger/splitledger/internal/db/controller/membership"
	"github.com/splitledger/splitledger/internal/db/models"
)

// ErrNotMember is returned when the requesting user is not a member of the group,
// including when the group does not exist.
var ErrNotMember = errors.New("user is not a member of the group")

// MemberBalance is the net balance of one group member.
type MemberBalance struct {
	UserID     uint64
	Username   string
	NetBalance int64
}

// Summary is the full balance view of a group for one requesting user.
type Summary struct {
	// NetBalance of the requesting user.
	NetBalance int64
	// Members holds every other member, in the order they were passed to Compute.
	Members []MemberBalance
}

// Compute accumulates debts into per member balances. Debts with an endpoint
// outside members are skipped. The caller is reported through Summary.NetBalance
// and left out of Summary.Members.
func Compute(callerID uint64, members []models.User, debts []models.Debt) (*Summary, error) {
	acc := make(map[uint64]int64, len(members))
	for _, m := range members {
		acc[m.ID] = 0
	}

	if _, ok := acc[callerID]; !ok {
		return nil, ErrNotMember
	}

	for _, d := range debts {
		_, debtorIn := acc[d.DebtorID]
		_, creditorIn := acc[d.CreditorID]

		if !debtorIn || !creditorIn {
			continue
		}

		acc[d.CreditorID] += d.Amount
		acc[d.DebtorID] -= d.Amount
	}

	summary := &Summary{
		NetBalance: acc[callerID],
		Members:    make([]MemberBalance, 0, len(members)),
	}

	for _, m := range members {
		if m.ID == callerID {
			continue
		}

		summary.Members = append(summary.Members, MemberBalance{
			UserID:     m.ID,
			Username:   m.Username,
			NetBalance: acc[m.ID],
		})
	}

	return summary, nil
}

// Own sums the caller's side of debts: credits minus debits.
// Debts not involving callerID are ignored.
func Own(callerID uint64, debts []models.Debt) int64 {
	var net int64

	for _, d := range debts {
		switch callerID {
		case d.CreditorID:
			net += d.Amount
		case d.DebtorID:
			net -= d.Amount
		}
	}

	return net
}

// Brief returns only the caller's net balance within the group.
// Membership and debts are read in one transaction.
func Brief(db *gorm.DB, groupID, callerID uint64) (int64, error) {
	var net int64

	err := db.Transaction(func(tx *gorm.DB) error {
		memberIDs, err := membership.MemberIDs(tx, groupID)
		if err != nil {
			return err
		}

		counterparties := make([]uint64, 0, len(memberIDs))
		isMember := false

		for _, id := range memberIDs {
			if id == callerID {
				isMember = true
				continue
			}

			counterparties = append(counterparties, id)
		}

		if !isMember {
			return ErrNotMember
		}

		debts, err := ledger.EdgesOf(tx, callerID, counterparties)
		if err != nil {
			return err
		}

		net = Own(callerID, debts)

		return nil
	})

	return net, err
}

// Full returns the caller's net balance together with the balance of every
// other member. Membership and debts are read in one transaction.
func Full(db *gorm.DB, groupID, callerID uint64) (*Summary, error) {
	var summary *Summary

	err := db.Transaction(func(tx *gorm.DB) error {
		members, err := membership.ListMembers(tx, groupID)
		if err != nil {
			return err
		}

		ids := make([]uint64, 0, len(members))
		for _, m := range members {
			ids = append(ids, m.ID)
		}

		debts, err := ledger.EdgesTouching(tx, ids)
		if err != nil {
			return err
		}

		summary, err = Compute(callerID, members, debts)

		return err
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}
