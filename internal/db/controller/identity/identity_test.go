package identity

import (
	"math"
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

func seedUsers(t *testing.T, db *gorm.DB) []models.User {
	t.Helper()

	users := []models.User{
		{Username: "alice", Email: "alice@example.com", Active: true},
		{Username: "bob", Email: "bob@example.com", Active: true},
		// carol's email collides with dave's username
		{Username: "carol", Email: "dave", Active: true},
		{Username: "dave", Email: "dave@example.com", Active: true},
	}

	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error, "failed to seed test data")
	}

	return users
}

func TestResolve(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)

	bothSet := ByID(users[1].ID)
	alice := "alice"
	bothSet.Handle = &alice

	testCases := []struct {
		name          string
		dbParam       *gorm.DB
		spec          Spec
		expectedError error
		expectedID    uint64
	}{
		{
			name:          "nil database",
			dbParam:       nil,
			spec:          ByID(users[0].ID),
			expectedError: ErrDBNil,
		},
		{
			name:          "empty spec",
			dbParam:       db,
			spec:          Spec{},
			expectedError: ErrSpecEmpty,
		},
		{
			name:       "by id",
			dbParam:    db,
			spec:       ByID(users[1].ID),
			expectedID: users[1].ID,
		},
		{
			name:          "unknown id",
			dbParam:       db,
			spec:          ByID(9999),
			expectedError: ErrUserNotFound,
		},
		{
			name:          "id beyond the key range",
			dbParam:       db,
			spec:          ByID(math.MaxUint64),
			expectedError: ErrUserNotFound,
		},
		{
			name:       "by username",
			dbParam:    db,
			spec:       ByHandle("alice"),
			expectedID: users[0].ID,
		},
		{
			name:       "by email",
			dbParam:    db,
			spec:       ByHandle("bob@example.com"),
			expectedID: users[1].ID,
		},
		{
			name:       "handle collision resolves to the first user",
			dbParam:    db,
			spec:       ByHandle("dave"),
			expectedID: users[2].ID,
		},
		{
			name:          "unknown handle",
			dbParam:       db,
			spec:          ByHandle("bademail"),
			expectedError: ErrUserNotFound,
		},
		{
			name:          "handle match is exact",
			dbParam:       db,
			spec:          ByHandle("ALICE"),
			expectedError: ErrUserNotFound,
		},
		{
			name:       "id wins over handle",
			dbParam:    db,
			spec:       bothSet,
			expectedID: users[1].ID,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := Resolve(tc.dbParam, tc.spec)

			if tc.expectedError != nil {
				require.ErrorIs(t, err, tc.expectedError)
				assert.Nil(t, user)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedID, user.ID)
		})
	}
}

func TestResolveID(t *testing.T) {
	db := setupTestDB(t)
	users := seedUsers(t, db)

	id, err := ResolveID(db, ByHandle("alice@example.com"))
	require.NoError(t, err)
	assert.Equal(t, users[0].ID, id)

	_, err = ResolveID(db, ByHandle("nobody"))
	require.ErrorIs(t, err, ErrUserNotFound)
}
