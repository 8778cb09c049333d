package todo

import "strings"

// Request shapes for the remote procedures. These are shared by the
// server handlers and the typed client so both sides agree on the wire
// contract.

type CreateRequest struct {
	Title string `json:"title"`
}

func (r CreateRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return nil
}

// UpdateRequest carries a partial update: a nil Title leaves the title
// untouched.
type UpdateRequest struct {
	ID    int64   `json:"id"`
	Title *string `json:"title,omitempty"`
}

func (r UpdateRequest) Validate() error {
	if r.ID <= 0 {
		return &ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	return nil
}

type ToggleRequest struct {
	ID int64 `json:"id"`
}

func (r ToggleRequest) Validate() error {
	if r.ID <= 0 {
		return &ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return nil
}

type DeleteRequest struct {
	ID int64 `json:"id"`
}

func (r DeleteRequest) Validate() error {
	if r.ID <= 0 {
		return &ValidationError{Field: "id", Reason: "must be a positive integer"}
	}
	return nil
}

// DeleteResponse acknowledges a delete. Success is true even when the
// id did not exist, which keeps client retries simple.
type DeleteResponse struct {
	Success bool `json:"success"`
}

// Error codes carried in the ErrorResponse envelope.
const (
	CodeInvalidRequest = "invalid_request"
	CodeNotFound       = "not_found"
	CodeStorageError   = "storage_error"
)

// ErrorResponse is the JSON envelope for failed remote procedures.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"error"`
}

