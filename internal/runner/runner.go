// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

type (
	// Command describes one external process invocation.
	Command struct {
		// Argv is the program followed by its arguments. Must not be empty.
		Argv []string
		// Dir is the working directory; empty means the current directory.
		Dir string
		// Env is appended to the inherited process environment.
		Env []string

		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// Runner executes commands to completion.
	Runner interface {
		Run(ctx context.Context, cmd Command) *Result
	}

	// ExecRunner runs commands as host subprocesses.
	ExecRunner struct {
		// Stdout and Stderr receive the child output when the Command leaves them nil.
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewExecRunner creates a runner that forwards child output to the given writers.
func NewExecRunner(stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{Stdout: stdout, Stderr: stderr}
}

// Name returns the program name of the command.
func (c Command) Name() string {
	if len(c.Argv) == 0 {
		return ""
	}
	return c.Argv[0]
}

// String renders the command as a shell-quoted line for display.
func (c Command) String() string {
	return Quote(c.Argv)
}

// Quote joins argv into a single line, quoting words that need it.
func Quote(argv []string) string {
	words := make([]string, 0, len(argv))
	for _, arg := range argv {
		quoted, err := syntax.Quote(arg, syntax.LangBash)
		if err != nil {
			quoted = arg
		}
		words = append(words, quoted)
	}
	return strings.Join(words, " ")
}

// Run executes the command and waits for it to exit.
func (r *ExecRunner) Run(ctx context.Context, c Command) *Result {
	if len(c.Argv) == 0 {
		return NewErrorResult(1, errors.New("empty command"))
	}

	path, err := exec.LookPath(c.Name())
	if err != nil {
		return NewErrorResult(ExitCodeNotFound, fmt.Errorf("%w: %s", ErrCommandNotFound, c.Name()))
	}

	cmd := exec.CommandContext(ctx, path, c.Argv[1:]...)
	if c.Dir != "" {
		cmd.Dir = c.Dir
	}
	if len(c.Env) > 0 {
		cmd.Env = append(os.Environ(), c.Env...)
	}

	cmd.Stdin = c.Stdin
	cmd.Stdout = firstWriter(c.Stdout, r.Stdout)
	cmd.Stderr = firstWriter(c.Stderr, r.Stderr)

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return NewExitCodeResult(ExitCode(exitErr.ExitCode()))
		}
		return NewErrorResult(1, fmt.Errorf("failed to execute %s: %w", c.Name(), err))
	}

	return NewSuccessResult()
}

func firstWriter(preferred, fallback io.Writer) io.Writer {
	if preferred != nil {
		return preferred
	}
	return fallback
}
