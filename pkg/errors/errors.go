package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an application error so transports can branch on it
// without inspecting message strings.
type Kind int

const (
	// KindInternal is any failure the caller cannot fix.
	KindInternal Kind = iota
	// KindValidation is client-supplied data failing a business rule.
	KindValidation
	// KindConflict is a uniqueness violation (duplicate email).
	KindConflict
	// KindNotFound is an unknown record.
	KindNotFound
	// KindInvalidCredentials is a password that does not match the stored hash.
	KindInvalidCredentials
	// KindUnauthorized is a missing, malformed or expired bearer token.
	KindUnauthorized
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindInvalidCredentials:
		return "invalid_credentials"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// HTTPStatus maps a kind to its response status code.
func (k Kind) HTTPStatus() int {
	switch k {
	case KindValidation, KindConflict, KindInvalidCredentials:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Kinded is implemented by every error type in this package.
type Kinded interface {
	Kind() Kind
}

// KindOf returns the kind of the first Kinded error in err's chain.
// Untyped errors are internal.
func KindOf(err error) Kind {
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindInternal
}

// ValidationError represents a validation failure with field-level details
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// Kind implements Kinded
func (e *ValidationError) Kind() Kind { return KindValidation }

// ConflictError represents a resource that already exists
type ConflictError struct {
	Resource string
	Message  string
}

// NewConflictError creates a new conflict error
func NewConflictError(resource, message string) *ConflictError {
	return &ConflictError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *ConflictError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s already exists", e.Resource)
}

// Kind implements Kinded
func (e *ConflictError) Kind() Kind { return KindConflict }

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// Kind implements Kinded
func (e *NotFoundError) Kind() Kind { return KindNotFound }

// InvalidCredentialsError is returned when a password does not verify.
type InvalidCredentialsError struct {
	Message string
}

// NewInvalidCredentialsError creates a new invalid credentials error
func NewInvalidCredentialsError(message string) *InvalidCredentialsError {
	return &InvalidCredentialsError{Message: message}
}

// Error implements the error interface
func (e *InvalidCredentialsError) Error() string {
	return e.Message
}

// Kind implements Kinded
func (e *InvalidCredentialsError) Kind() Kind { return KindInvalidCredentials }

// UnauthorizedError is returned for a missing or rejected bearer token.
type UnauthorizedError struct {
	Message string
	Err     error
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string, err error) *UnauthorizedError {
	return &UnauthorizedError{Message: message, Err: err}
}

// Error implements the error interface
func (e *UnauthorizedError) Error() string {
	return e.Message
}

// Unwrap returns the wrapped error
func (e *UnauthorizedError) Unwrap() error {
	return e.Err
}

// Kind implements Kinded
func (e *UnauthorizedError) Kind() Kind { return KindUnauthorized }

// InternalError represents an internal server error with context
type InternalError struct {
	Message string
	Err     error
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *InternalError {
	return &InternalError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *InternalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *InternalError) Unwrap() error {
	return e.Err
}

// Kind implements Kinded
func (e *InternalError) Kind() Kind { return KindInternal }

// Cause returns the underlying message of an internal error, or the error's
// own message when nothing is wrapped.
func Cause(err error) string {
	var ie *InternalError
	if errors.As(err, &ie) && ie.Err != nil {
		return ie.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
