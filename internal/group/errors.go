package group

import (
	"errors"
)

// Error kinds. A *RequestError unwraps to exactly one of them.
var (
	// ErrInvalidRequest marks malformed or missing input.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotMemberOrNotFound marks a missing entity or a caller without access to it.
	// Both cases carry the same message.
	ErrNotMemberOrNotFound = errors.New("not a member or not found")
	// ErrStoreUnavailable marks a failing database.
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Messages returned to clients.
const (
	MsgSuccess             = "Success"
	MsgNotMemberOrNotFound = "Group does not exist or user is not a member"
	MsgMissingUserKey      = "Missing 'user' or 'user_id' key for users: "
	MsgUsersNotFound       = "Could Not find the following users: "
	MsgGroupNameNotSet     = "group_name not set"
	MsgGroupNewNameNotSet  = "group_new_name not set"
	MsgInternal            = "Internal server error"
)

// RequestError is a failed group operation with the message shown to the client.
type RequestError struct {
	Kind    error
	Message string
	Err     error
}

// Error implements error.
func (e *RequestError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}

	return e.Message
}

// Unwrap exposes the kind and the underlying cause to errors.Is and errors.As.
func (e *RequestError) Unwrap() []error {
	if e.Err != nil {
		return []error{e.Kind, e.Err}
	}

	return []error{e.Kind}
}

func invalid(msg string) error {
	return &RequestError{Kind: ErrInvalidRequest, Message: msg}
}

func notFound(msg string) error {
	return &RequestError{Kind: ErrNotMemberOrNotFound, Message: msg}
}

func storeUnavailable(err error) error {
	return &RequestError{Kind: ErrStoreUnavailable, Message: MsgInternal, Err: err}
}
