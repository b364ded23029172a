package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code
type ErrorCode int

// AppError represents an application error
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrMissingFields
	ErrInvalidFormat
	ErrDuplicateUsername
	ErrDuplicateEmail
	ErrInvalidCredentials
	ErrAccountInactive
	ErrUnauthenticated
	ErrForbidden
	ErrPersistence
	ErrAuditWrite
)

// Error constructors
func NotFound(resource string) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
	}
}

func MissingFields() *AppError {
	return &AppError{
		Code:    ErrMissingFields,
		Message: "all required fields must be provided",
	}
}

func InvalidFormat(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidFormat,
		Message: message,
	}
}

func DuplicateUsername() *AppError {
	return &AppError{
		Code:    ErrDuplicateUsername,
		Message: "username already exists",
	}
}

func DuplicateEmail() *AppError {
	return &AppError{
		Code:    ErrDuplicateEmail,
		Message: "email already registered",
	}
}

func InvalidCredentials() *AppError {
	return &AppError{
		Code:    ErrInvalidCredentials,
		Message: "invalid email or password",
	}
}

func AccountInactive() *AppError {
	return &AppError{
		Code:    ErrAccountInactive,
		Message: "account is inactive, please contact administrator",
	}
}

func Unauthenticated(err error) *AppError {
	return &AppError{
		Code:    ErrUnauthenticated,
		Message: "unauthenticated",
		Err:     err,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    ErrForbidden,
		Message: message,
	}
}

// Persistence wraps a storage failure without leaking storage internals
// into the caller-visible message.
func Persistence(err error) *AppError {
	return &AppError{
		Code:    ErrPersistence,
		Message: "operation failed, please try again",
		Err:     err,
	}
}

func AuditWrite(err error) *AppError {
	return &AppError{
		Code:    ErrAuditWrite,
		Message: "audit write failed",
		Err:     err,
	}
}

// Is reports whether err is an AppError carrying the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the error code of err, or 0 if err is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return 0
}
