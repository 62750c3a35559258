package store

import (
	"errors"
	"strings"
)

// ErrUserNotFound is returned when a user id or name doesn't resolve
var ErrUserNotFound = errors.New("user not found")

// ErrRoleNotFound is returned when a role id doesn't resolve
var ErrRoleNotFound = errors.New("role not found")

// ValidationError is returned when the store rejects an operation.
// Messages are user-facing and kept in the order the store reported them.
type ValidationError struct {
	Messages []string
}

// Failures builds a ValidationError from one or more messages
func Failures(messages ...string) *ValidationError {
	return &ValidationError{Messages: messages}
}

func (e *ValidationError) Error() string {
	return strings.Join(e.Messages, "; ")
}

// AsValidation reports whether err carries a ValidationError
func AsValidation(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
