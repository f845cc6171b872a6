// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bjoernbethge/infinibuild/internal/runner"
)

type (
	// FakeRunner is a runner.Runner that executes nothing. Responses are
	// scripted per command line; unscripted commands succeed with no output.
	FakeRunner struct {
		mu        sync.Mutex
		responses map[string]Response
		calls     []runner.Command
	}

	// Response is the scripted outcome of one command line.
	Response struct {
		// Stdout is written to the command's Stdout writer, if any.
		Stdout string
		// Result is returned as-is; nil means success.
		Result *runner.Result
		// OnRun is invoked before the result is returned.
		OnRun func(cmd runner.Command)
	}
)

// NewFakeRunner creates an empty FakeRunner.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{responses: make(map[string]Response)}
}

// On scripts the response for the command whose argv joins to line.
func (f *FakeRunner) On(line string, resp Response) *FakeRunner {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[line] = resp
	return f
}

// Fail scripts a non-zero exit for line.
func (f *FakeRunner) Fail(line string, code runner.ExitCode) *FakeRunner {
	return f.On(line, Response{Result: runner.NewExitCodeResult(code)})
}

// Missing scripts a command-not-found failure for line.
func (f *FakeRunner) Missing(line string) *FakeRunner {
	err := fmt.Errorf("%w: %s", runner.ErrCommandNotFound, strings.Fields(line)[0])
	return f.On(line, Response{Result: runner.NewErrorResult(runner.ExitCodeNotFound, err)})
}

// Run implements runner.Runner.
func (f *FakeRunner) Run(_ context.Context, cmd runner.Command) *runner.Result {
	line := strings.Join(cmd.Argv, " ")

	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	resp, ok := f.responses[line]
	f.mu.Unlock()

	if !ok {
		return runner.NewSuccessResult()
	}
	if resp.OnRun != nil {
		resp.OnRun(cmd)
	}
	if resp.Stdout != "" && cmd.Stdout != nil {
		_, _ = io.WriteString(cmd.Stdout, resp.Stdout) //nolint:errcheck // test double
	}
	if resp.Result == nil {
		return runner.NewSuccessResult()
	}
	return resp.Result
}

// Calls returns the commands executed so far, in order.
func (f *FakeRunner) Calls() []runner.Command {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]runner.Command(nil), f.calls...)
}

// Lines returns the executed command lines, in order.
func (f *FakeRunner) Lines() []string {
	calls := f.Calls()
	lines := make([]string, 0, len(calls))
	for _, c := range calls {
		lines = append(lines, strings.Join(c.Argv, " "))
	}
	return lines
}

// Count returns how many times line was executed.
func (f *FakeRunner) Count(line string) int {
	n := 0
	for _, l := range f.Lines() {
		if l == line {
			n++
		}
	}
	return n
}
