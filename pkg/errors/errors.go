package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents a unique error code
type ErrorCode int

// Common error codes
const (
	ErrNotFound ErrorCode = iota + 1000
	ErrValidation
	ErrInvalidInput
	ErrConflict
	ErrTransient
	ErrInternal
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
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

// StatusCode maps the error code to its HTTP equivalent.
func (e *AppError) StatusCode() int {
	switch e.Code {
	case ErrNotFound:
		return http.StatusNotFound
	case ErrValidation, ErrInvalidInput:
		return http.StatusBadRequest
	case ErrConflict:
		return http.StatusConflict
	case ErrTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Error constructors
func NewNotFound(resource string, err error) *AppError {
	return &AppError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Err:     err,
	}
}

func NewValidation(message string, err error) *AppError {
	return &AppError{
		Code:    ErrValidation,
		Message: message,
		Err:     err,
	}
}

// NewInvalidInput flags an out-of-domain categorical value. Same class as a
// validation failure but raised by the pricing/duration components, and never
// worth retrying.
func NewInvalidInput(message string) *AppError {
	return &AppError{
		Code:    ErrInvalidInput,
		Message: message,
	}
}

// NewConflict carries the conflicting appointments so the caller can offer
// alternative slots.
func NewConflict(message string, conflicts interface{}) *AppError {
	return &AppError{
		Code:    ErrConflict,
		Message: message,
		Details: conflicts,
	}
}

// NewTransient marks a store timeout or connectivity failure; safe to retry
// with backoff.
func NewTransient(message string, err error) *AppError {
	return &AppError{
		Code:    ErrTransient,
		Message: message,
		Err:     err,
	}
}

func NewInternal(err error) *AppError {
	return &AppError{
		Code:    ErrInternal,
		Message: "internal server error",
		Err:     err,
	}
}

// Common errors
func NotFound(resource string, err error) *AppError {
	return NewNotFound(resource, err)
}

func Validation(message string, err error) *AppError {
	return NewValidation(message, err)
}

func Internal(err error) *AppError {
	return NewInternal(err)
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func IsNotFound(err error) bool     { return IsCode(err, ErrNotFound) }
func IsConflict(err error) bool     { return IsCode(err, ErrConflict) }
func IsValidation(err error) bool   { return IsCode(err, ErrValidation) }
func IsInvalidInput(err error) bool { return IsCode(err, ErrInvalidInput) }
func IsTransient(err error) bool    { return IsCode(err, ErrTransient) }
