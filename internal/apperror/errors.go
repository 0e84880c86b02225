package apperror

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError signals malformed or missing input.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func NewValidation(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

func IsValidation(err error) bool {
	var validationError *ValidationError
	return errors.As(err, &validationError)
}

// ValidationErrors aggregates field-level failures so a request with several
// bad fields reports all of them at once instead of failing on the first.
type ValidationErrors struct {
	Errors []error
}

func (ve *ValidationErrors) Error() string {
	errorMessages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		errorMessages[i] = err.Error()
	}
	return fmt.Sprintf("multiple validation errors: %s", strings.Join(errorMessages, "; "))
}

func (ve *ValidationErrors) Add(err error) {
	ve.Errors = append(ve.Errors, err)
}

func (ve *ValidationErrors) Messages() []string {
	messages := make([]string, len(ve.Errors))
	for i, err := range ve.Errors {
		messages[i] = err.Error()
	}
	return messages
}

func IsValidationErrors(err error) bool {
	var validationErrors *ValidationErrors
	return errors.As(err, &validationErrors)
}

// AuthenticationError covers missing/invalid/expired tokens and unknown
// identities.
type AuthenticationError struct {
	Msg string
}

func (e *AuthenticationError) Error() string {
	return e.Msg
}

func NewAuthentication(format string, args ...interface{}) error {
	return &AuthenticationError{Msg: fmt.Sprintf(format, args...)}
}

func IsAuthentication(err error) bool {
	var authenticationError *AuthenticationError
	return errors.As(err, &authenticationError)
}

// AuthorizationError means the principal is authenticated but lacks the
// required role.
type AuthorizationError struct {
	Msg string
}

func (e *AuthorizationError) Error() string {
	return e.Msg
}

func NewAuthorization(format string, args ...interface{}) error {
	return &AuthorizationError{Msg: fmt.Sprintf(format, args...)}
}

func IsAuthorization(err error) bool {
	var authorizationError *AuthorizationError
	return errors.As(err, &authorizationError)
}

// NotFoundError means no owned row matched. Rows owned by somebody else are
// reported with this error as well, so existence never leaks.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

func NewNotFound(format string, args ...interface{}) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

func IsNotFound(err error) bool {
	var notFoundError *NotFoundError
	return errors.As(err, &notFoundError)
}

// ConflictError signals a duplicate unique field (email, category name, role
// name).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string {
	return e.Msg
}

func NewConflict(format string, args ...interface{}) error {
	return &ConflictError{Msg: fmt.Sprintf(format, args...)}
}

func IsConflict(err error) bool {
	var conflictError *ConflictError
	return errors.As(err, &conflictError)
}
