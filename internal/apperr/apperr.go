// Package apperr defines the error kinds shared across service and transport
// layers. Callers should use errors.Is to match the kind sentinels.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or disallowed input.
	ErrValidation = errors.New("validation error")

	// ErrAuth marks missing/invalid/revoked credentials. Deliberately
	// low-detail to prevent account enumeration.
	ErrAuth = errors.New("unable to authenticate")

	// ErrNotFound marks a missing resource. Not-owned resources report the
	// same kind so callers cannot probe for ids they do not own.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a duplicate unique field.
	ErrConflict = errors.New("conflict")

	// ErrDependency marks a storage or notification collaborator failure.
	ErrDependency = errors.New("dependency failure")
)

func Validation(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrValidation)
}

func Auth(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrAuth)
}

func NotFound(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

func Conflict(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrConflict)
}

func Dependency(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrDependency)
}
