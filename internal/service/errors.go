package service

import (
	"errors"
	"fmt"
)

// ErrInvalidCredentials covers every login failure. Whether the email is
// unknown or the password wrong is deliberately not distinguishable.
var ErrInvalidCredentials = errors.New("unable to login")

// ValidationError reports a policy-violating field with enough detail for
// the caller to correct the input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalidField(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
