package apperrors

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned when a voice turn captured neither speech nor digits.
	ErrEmptyInput = errors.New("no speech or digits captured")
	// ErrValidation marks a malformed inbound payload.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicatePhone is returned when a phone number is already registered.
	ErrDuplicatePhone = errors.New("phone number already registered")
	// ErrUserNotFound is returned when no registered user matches a lookup.
	ErrUserNotFound = errors.New("user not found")
)

// GenerationError is the single failure kind of the text generator. Timeouts,
// transport failures, rate limits, auth failures and empty responses all end
// up here with a human readable Detail.
type GenerationError struct {
	Detail string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Detail, e.Err)
	}
	return "generation failed: " + e.Detail
}

func (e *GenerationError) Unwrap() error { return e.Err }

// NewGenerationError builds a GenerationError.
func NewGenerationError(detail string, err error) *GenerationError {
	return &GenerationError{Detail: detail, Err: err}
}

// DispatchError is returned when the gateway fails to send a message or place a call.
type DispatchError struct {
	Operation string
	Detail    string
	Err       error
}

func (e *DispatchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failed: %s: %v", e.Operation, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s failed: %s", e.Operation, e.Detail)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// NewDispatchError builds a DispatchError for operation ("send message", "place call").
func NewDispatchError(operation, detail string, err error) *DispatchError {
	return &DispatchError{Operation: operation, Detail: detail, Err: err}
}

// Validation wraps ErrValidation with a field specific message.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// IsGeneration reports whether err is or wraps a GenerationError.
func IsGeneration(err error) bool {
	var genErr *GenerationError
	return errors.As(err, &genErr)
}

// IsDispatch reports whether err is or wraps a DispatchError.
func IsDispatch(err error) bool {
	var dispatchErr *DispatchError
	return errors.As(err, &dispatchErr)
}
