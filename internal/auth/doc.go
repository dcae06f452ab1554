// Package auth resolves the caller of a request to a user id.
//
// Sessions are issued by the login service and stored in the shared session
// storage; this package only validates them. RequireSession answers 401 for a
// missing, unknown or corrupt session and for inactive or deleted users, and
// 500 when the session storage or the database fails.
//
// LocalProvider manages local accounts (username, email, Argon2id password hash)
// for operators seeding users from the command line.
package auth
