// Package hostconfig loads and validates the host application's
// .yo-rc.json, the configuration JHipster writes at the project root when it
// scaffolds an application.
package hostconfig

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for host configuration operations.
var (
	// ErrConfigNotFound indicates the project root has no .yo-rc.json.
	ErrConfigNotFound = errors.New("hostconfig: .yo-rc.json not found")

	// ErrInvalidConfig indicates the configuration is unreadable or invalid.
	ErrInvalidConfig = errors.New("hostconfig: invalid configuration")

	// ErrMissingGeneratorKey indicates .yo-rc.json has no generator-jhipster section.
	ErrMissingGeneratorKey = errors.New("hostconfig: generator-jhipster section missing")

	// ErrInvalidVersion indicates jhipsterVersion is not a semantic version.
	ErrInvalidVersion = errors.New("hostconfig: invalid jhipster version")

	// ErrInvalidPackageName indicates packageName is not a Java package name.
	ErrInvalidPackageName = errors.New("hostconfig: invalid package name")
)

// ValidationError represents a single validation error with field context.
type ValidationError struct {
	Field   string
	Message string
	Value   any
	Wrapped error // underlying sentinel error for errors.Is support
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("validation error: field %q: %s (got: %v)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("validation error: field %q: %s", e.Field, e.Message)
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "validation: no errors"
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("validation failed with %d error(s): %s", len(e.Errors), strings.Join(msgs, "; "))
}

// Is reports ErrInvalidConfig for every collection and otherwise checks the
// contained errors against target.
func (e *ValidationErrors) Is(target error) bool {
	if target == ErrInvalidConfig {
		return true
	}
	for _, ve := range e.Errors {
		if ve.Wrapped != nil && errors.Is(ve.Wrapped, target) {
			return true
		}
	}
	return false
}
