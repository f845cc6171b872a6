// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/bjoernbethge/infinibuild/internal/compile"
	"github.com/bjoernbethge/infinibuild/internal/issue"
	"github.com/bjoernbethge/infinibuild/internal/runner"

	"github.com/spf13/cobra"
)

// ExitError signals a non-zero exit code without forcing os.Exit in RunE handlers.
type ExitError struct {
	Code runner.ExitCode
	Err  error
}

// Error returns the error message for ExitError.
func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

// Unwrap returns the underlying error, if any.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// fail prints err once, styled, and returns the ExitError for it.
func fail(cmd *cobra.Command, err error) error {
	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
	if verbose {
		renderIssue(stderr, issueFor(err))
	}

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return &ExitError{Code: exitCodeFor(err), Err: err}
}

// exitCodeFor returns the frontend exit status for compilation failures, 1 otherwise.
// A status outside 0-255, such as -1 for a signal-killed frontend, maps to 1.
func exitCodeFor(err error) runner.ExitCode {
	var compErr *compile.CompilationError
	if errors.As(err, &compErr) && !compErr.ExitCode.IsSuccess() && compErr.ExitCode.Validate() == nil {
		return compErr.ExitCode
	}
	return 1
}

func issueFor(err error) issue.Id {
	var ae *issue.ActionableError
	switch {
	case errors.As(err, &ae) && ae.ID != 0:
		return ae.ID
	case errors.Is(err, issue.ErrCompilation):
		return issue.CompilationFailedId
	default:
		return 0
	}
}

func renderIssue(w io.Writer, id issue.Id) {
	if id == 0 {
		return
	}
	entry := issue.Get(id)
	if entry == nil {
		return
	}
	rendered, err := entry.Render("dark")
	if err != nil {
		newLogger(w).Warn("failed to render issue catalog entry", "issueID", id, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}
