package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel errors for the service layer. Handlers classify outcomes with
// errors.Is and translate them to HTTP responses.
var (
	// ErrDuplicateUser means the username or email is already registered.
	ErrDuplicateUser = errors.New("duplicate user")
	// ErrInvalidCredentials covers both unknown email and wrong password,
	// deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTaskNotFound means no task exists with the requested ID.
	ErrTaskNotFound = errors.New("task not found")
	// ErrForbidden means the task exists but belongs to someone else.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated means no authenticated user was supplied.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// ValidationError carries per-field validation messages, independent of any
// rendering layer.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fmt.Sprintf("validation failed on fields: %s", strings.Join(fields, ", "))
}

// AsValidationError unwraps err into a *ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
