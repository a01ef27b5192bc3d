package utils

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by services. Wrap them with fmt.Errorf("...: %w", ErrX)
// so StatusErrorResponse can pick the HTTP status.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrLimitReached = errors.New("limit reached")
)

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// InvalidInputf wraps ErrInvalidInput with a formatted message.
func InvalidInputf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrInvalidInput)
}

// Conflictf wraps ErrConflict with a formatted message.
func Conflictf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

// LimitReachedf wraps ErrLimitReached with a formatted message.
func LimitReachedf(format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrLimitReached)
}

// ValidationError carries one message per failed field. It unwraps to ErrInvalidInput.
type ValidationError struct {
	Message  string
	Detalles []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Detalles, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}
