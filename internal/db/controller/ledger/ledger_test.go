package ledger

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/splitledger/splitledger/internal/db/models"
)

// setupTestDB creates a file backed SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	err = db.AutoMigrate(models.All()...)
	require.NoError(t, err, "failed to migrate test database")

	return db
}

func seedUsers(t *testing.T, db *gorm.DB, names ...string) []uint64 {
	t.Helper()

	ids := make([]uint64, 0, len(names))

	for _, name := range names {
		user := models.User{Username: name, Email: name + "@example.com", Active: true}
		require.NoError(t, db.Create(&user).Error, "failed to seed test data")
		ids = append(ids, user.ID)
	}

	return ids
}

func amounts(debts []models.Debt) []int64 {
	out := make([]int64, 0, len(debts))
	for _, d := range debts {
		out = append(out, d.Amount)
	}

	return out
}

func TestRecordDebt(t *testing.T) {
	db := setupTestDB(t)
	ids := seedUsers(t, db, "alice", "bob")

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		debtor        uint64
		creditor      uint64
		amount        int64
		expectedError error
	}{
		{name: "nil database", debtor: ids[0], creditor: ids[1], amount: 100, expectedError: ErrDBNil},
		{name: "valid", dbParam: db, debtor: ids[0], creditor: ids[1], amount: 1250},
		{name: "zero amount", dbParam: db, debtor: ids[0], creditor: ids[1], amount: 0, expectedError: ErrInvalidAmount},
		{name: "negative amount", dbParam: db, debtor: ids[0], creditor: ids[1], amount: -5, expectedError: ErrInvalidAmount},
		{name: "self debt", dbParam: db, debtor: ids[0], creditor: ids[0], amount: 5, expectedError: ErrSelfDebt},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			debt, err := RecordDebt(tc.dbParam, tc.debtor, tc.creditor, tc.amount)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				return
			}

			require.NoError(t, err)
			assert.NotZero(t, debt.ID)
			assert.Equal(t, tc.amount, debt.Amount)
		})
	}
}

func TestEdgesTouchingRequiresBothEndpoints(t *testing.T) {
	db := setupTestDB(t)
	ids := seedUsers(t, db, "alice", "bob", "carol", "outsider")
	alice, bob, carol, outsider := ids[0], ids[1], ids[2], ids[3]

	for _, d := range []struct {
		debtor, creditor uint64
		amount           int64
	}{
		{alice, bob, 100},
		{bob, carol, 200},
		{carol, outsider, 400},
		{outsider, alice, 800},
	} {
		_, err := RecordDebt(db, d.debtor, d.creditor, d.amount)
		require.NoError(t, err)
	}

	debts, err := EdgesTouching(db, []uint64{alice, bob, carol})
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 200}, amounts(debts))

	debts, err = EdgesTouching(db, []uint64{alice})
	require.NoError(t, err)
	assert.Empty(t, debts)

	debts, err = EdgesTouching(db, nil)
	require.NoError(t, err)
	assert.Empty(t, debts)

	debts, err = EdgesOf(db, alice, []uint64{bob, carol})
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, amounts(debts))

	debts, err = EdgesOf(db, alice, []uint64{bob, outsider})
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 800}, amounts(debts))
}

func TestEdgesWithinGroupFollowsMembership(t *testing.T) {
	db := setupTestDB(t)
	ids := seedUsers(t, db, "alice", "bob", "carol")
	alice, bob, carol := ids[0], ids[1], ids[2]

	group := models.Group{Name: "flat"}
	require.NoError(t, db.Create(&group).Error)

	for _, id := range ids {
		require.NoError(t, db.Create(&models.GroupMember{GroupID: group.ID, UserID: id}).Error)
	}

	_, err := RecordDebt(db, alice, bob, 100)
	require.NoError(t, err)
	_, err = RecordDebt(db, carol, alice, 300)
	require.NoError(t, err)

	debts, err := EdgesWithinGroup(db, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{100, 300}, amounts(debts))

	// carol leaves, her debt is no longer visible inside the group
	require.NoError(t, db.Where("group_id = ? AND user_id = ?", group.ID, carol).Delete(&models.GroupMember{}).Error)

	debts, err = EdgesWithinGroup(db, group.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{100}, amounts(debts))

	debts, err = EdgesWithinGroup(db, group.ID+1)
	require.NoError(t, err)
	assert.Empty(t, debts)
}
