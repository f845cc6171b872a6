// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"errors"
	"fmt"
)

var (
	// ErrCommandNotFound is wrapped when the command binary cannot be located.
	ErrCommandNotFound = errors.New("command not found")
	// ErrNonZeroExit is the sentinel error wrapped by ExitStatusError.
	ErrNonZeroExit = errors.New("command exited with non-zero status")
)

type (
	// Result is the outcome of one command execution.
	Result struct {
		// ExitCode is the process exit status.
		ExitCode ExitCode
		// Error is set when the process could not be started or awaited.
		// A process that ran and exited non-zero has a nil Error.
		Error error
	}

	// ExitStatusError reports a command that ran to completion with a non-zero status.
	ExitStatusError struct {
		Command string
		Code    ExitCode
	}
)

// NewErrorResult creates a Result with the given exit code and error.
func NewErrorResult(code ExitCode, err error) *Result {
	return &Result{ExitCode: code, Error: err}
}

// NewSuccessResult creates a Result with exit code 0 and no error.
func NewSuccessResult() *Result {
	return &Result{}
}

// NewExitCodeResult creates a Result with the given exit code and no error.
// Use this for non-zero exits that represent normal process termination
// rather than infrastructure failures.
func NewExitCodeResult(code ExitCode) *Result {
	return &Result{ExitCode: code}
}

// Succeeded reports whether the command started and exited with status 0.
func (r *Result) Succeeded() bool {
	return r.Error == nil && r.ExitCode.IsSuccess()
}

// Err folds the result into a single error, or nil on success.
// name identifies the command in the message.
func (r *Result) Err(name string) error {
	switch {
	case r.Error != nil:
		return r.Error
	case !r.ExitCode.IsSuccess():
		return &ExitStatusError{Command: name, Code: r.ExitCode}
	default:
		return nil
	}
}

// Error implements the error interface.
func (e *ExitStatusError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Command, e.Code)
}

// Unwrap returns ErrNonZeroExit so callers can use errors.Is for programmatic detection.
func (e *ExitStatusError) Unwrap() error { return ErrNonZeroExit }
