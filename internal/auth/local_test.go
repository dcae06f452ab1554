package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/splitledger/splitledger/internal/db/models"
)

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	user, err := provider.CreateUser(" alice ", "alice@example.com", "secret")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.True(t, user.Active)
	assert.NotEqual(t, "secret", user.Password)
	assert.True(t, user.VerifyPassword("secret"))

	testCases := []struct {
		name          string
		username      string
		email         string
		password      string
		expectedError error
	}{
		{name: "duplicate username", username: "alice", email: "other@example.com", password: "x", expectedError: ErrUserNameOrEmailExists},
		{name: "duplicate email", username: "other", email: "alice@example.com", password: "x", expectedError: ErrUserNameOrEmailExists},
		{name: "username taken as email", username: "alice@example.com", email: "new@example.com", password: "x", expectedError: ErrUserNameOrEmailExists},
		{name: "missing username", username: "", email: "x@example.com", password: "x", expectedError: ErrMissingField},
		{name: "missing password", username: "x", email: "x@example.com", password: "", expectedError: ErrMissingField},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := provider.CreateUser(tc.username, tc.email, tc.password)
			require.ErrorIs(t, err, tc.expectedError)
		})
	}

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeactivateUser(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	user, err := provider.CreateUser("alice", "alice@example.com", "secret")
	require.NoError(t, err)

	require.NoError(t, provider.DeactivateUser(user.ID))

	var stored models.User
	require.NoError(t, db.First(&stored, user.ID).Error)
	assert.False(t, stored.Active)

	require.ErrorIs(t, provider.DeactivateUser(user.ID+100), ErrUserNotFound)
}
