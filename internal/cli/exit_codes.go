package cli

import (
	"errors"
	"fmt"
)

// Exit codes for the plaid-vision CLI
const (
	// ExitSuccess indicates a valid document
	ExitSuccess = 0

	// ExitValidationFailed indicates an invalid document or a failed migration
	ExitValidationFailed = 1

	// ExitInvalidArguments indicates bad subcommand arguments or configuration
	ExitInvalidArguments = 3
)

// exitError is an error that carries an exit code.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

// NewExitError creates a new exit error with the given code.
func NewExitError(code int) error {
	return &exitError{code: code}
}

// ExitCode returns the exit code from an error.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var e *exitError
	if errors.As(err, &e) {
		return e.code
	}
	return ExitValidationFailed
}
