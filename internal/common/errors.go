package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrInternal     = errors.New("internal error")
	ErrValidation   = errors.New("validation failed")
	ErrUnavailable  = errors.New("capability unavailable")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// CapabilityError marks a failure of an optional external capability
// (classifier, advisory, metrics). Callers treat it as "skip, continue"
// but can still distinguish absence from runtime failure.
type CapabilityError struct {
	Capability string
	Absent     bool
	Cause      error
}

func (e *CapabilityError) Error() string {
	if e.Absent {
		return fmt.Sprintf("%s: not configured", e.Capability)
	}
	return fmt.Sprintf("%s: %v", e.Capability, e.Cause)
}

func (e *CapabilityError) Unwrap() error {
	if e.Absent {
		return ErrUnavailable
	}
	return e.Cause
}

// CapabilityAbsent reports a capability that was never configured.
func CapabilityAbsent(name string) *CapabilityError {
	return &CapabilityError{Capability: name, Absent: true}
}

// CapabilityFailed reports a configured capability that errored at runtime.
func CapabilityFailed(name string, cause error) *CapabilityError {
	return &CapabilityError{Capability: name, Cause: cause}
}
