package auth

import "errors"

var (
	// ErrUnauthenticated is returned when a request carries no valid session.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrUserNameOrEmailExists is returned when attempting to create a user with a username or email that already exists.
	ErrUserNameOrEmailExists = errors.New("user with username or email already exists")

	// ErrUserAccountDisabled is returned when the session belongs to a disabled user account.
	ErrUserAccountDisabled = errors.New("user account is disabled")

	// ErrUserNotFound is returned when the session belongs to a user that no longer exists.
	ErrUserNotFound = errors.New("user not found")

	// ErrMissingField is returned when a required user field is empty.
	ErrMissingField = errors.New("username, email and password are required")
)
