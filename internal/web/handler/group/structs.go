package group

import "encoding/json"

type (
	// envelope is decoded first to dispatch a POST body.
	envelope struct {
		Operation *string `json:"operation"`
	}

	createInput struct {
		GroupName string            `json:"group_name" validate:"required,max=100"`
		Members   []json.RawMessage `json:"members"`
	}

	addUserInput struct {
		GroupID *uint64 `json:"group_id" validate:"required"`
		User    *string `json:"user"`
		UserID  *uint64 `json:"user_id"`
	}

	groupInput struct {
		GroupID *uint64 `json:"group_id" validate:"required"`
	}

	renameInput struct {
		GroupID      *uint64 `json:"group_id" validate:"required"`
		GroupNewName string  `json:"group_new_name" validate:"required,max=100"`
	}

	// memberEntry is one element of the create members list.
	memberEntry struct {
		User   *string `json:"user"`
		UserID *uint64 `json:"user_id"`
	}
)

type (
	messageResponse struct {
		Message string `json:"message"`
	}

	createResponse struct {
		Message string `json:"message"`
		GroupID uint64 `json:"group_id"`
	}

	memberResponse struct {
		Username string `json:"username"`
		UserID   uint64 `json:"user_id"`
		// Debt is positive when the member owes money.
		Debt int64 `json:"debt"`
	}

	groupResponse struct {
		GroupName string `json:"group_name"`
		GroupID   uint64 `json:"group_id"`
		// Debt is positive when the caller owes money.
		Debt int64 `json:"debt"`
		// Members is nil for brief responses and omitted from the JSON.
		Members *[]memberResponse `json:"members,omitempty"`
	}

	listResponse struct {
		Message string          `json:"message"`
		Groups  []groupResponse `json:"groups"`
	}

	detailResponse struct {
		Message string `json:"message"`
		groupResponse
	}
)
