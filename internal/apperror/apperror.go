// Package apperror defines the error taxonomy shared across the service.
//
// Only orchestration-level failures live here: a user program that crashes,
// exits non-zero, or times out is a normally-reported outcome, not an error.
package apperror

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed request input; execution never starts.
	ErrValidation = errors.New("validation error")
	// ErrResource marks workspace creation failure.
	ErrResource = errors.New("resource error")
	// ErrMaterialization marks failure to stage the program into the workspace.
	ErrMaterialization = errors.New("materialization error")
)

type AppError struct {
	Err     error  // sentinel, for errors.Is
	Message string // human-readable description
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// ValidationFailed reports malformed or missing request input.
func ValidationFailed(message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
	}
}

// Resource reports a workspace allocation failure.
func Resource(op string, cause error) *AppError {
	return &AppError{
		Err:     ErrResource,
		Message: fmt.Sprintf("%s: %v", op, cause),
	}
}

// Materialization reports a failure writing the program into the workspace.
func Materialization(cause error) *AppError {
	return &AppError{
		Err:     ErrMaterialization,
		Message: fmt.Sprintf("staging script: %v", cause),
	}
}
