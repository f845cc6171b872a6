// SPDX-License-Identifier: MPL-2.0

// Package compile hands the assembled extension descriptors to the
// native-extension compiler frontend.
//
// The frontend is an external program. It receives one JSON request on
// standard input,
//
//	{"extensions": [{"name": "...", "sources": ["..."], "include_dirs": ["..."]}]}
//
// and answers with the produced build targets on standard output:
//
//	{"targets": [{"name": "...", "path": "..."}]}
//
// An empty answer means no targets. The frontend runs exactly once per
// invocation, also when there is nothing to compile.
package compile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/bjoernbethge/infinibuild/internal/extension"
	"github.com/bjoernbethge/infinibuild/internal/issue"
	"github.com/bjoernbethge/infinibuild/internal/runner"
)

type (
	// Target is one compiled extension build target.
	Target struct {
		Name string `json:"name"`
		Path string `json:"path"`
	}

	// Frontend compiles extension descriptors.
	Frontend interface {
		Compile(ctx context.Context, descs []extension.Descriptor) ([]Target, error)
	}

	// CommandFrontend runs an external frontend program in the project root.
	CommandFrontend struct {
		Runner  runner.Runner
		Command []string
		Dir     string
		// Stderr receives the frontend diagnostics.
		Stderr io.Writer
	}

	// CompilationError reports a failed frontend invocation. It is fatal.
	CompilationError struct {
		// ExitCode is the frontend exit status, or 1 when it did not run.
		ExitCode runner.ExitCode
		Err      error
	}

	// Driver invokes the frontend once and returns its targets.
	Driver struct {
		frontend Frontend
	}

	request struct {
		Extensions []extension.Descriptor `json:"extensions"`
	}

	response struct {
		Targets []Target `json:"targets"`
	}
)

// NewDriver creates a driver for frontend.
func NewDriver(frontend Frontend) *Driver {
	return &Driver{frontend: frontend}
}

// Error implements the error interface.
func (e *CompilationError) Error() string {
	return fmt.Sprintf("extension compilation failed: %v", e.Err)
}

// Unwrap returns the frontend error unmodified.
func (e *CompilationError) Unwrap() error { return e.Err }

// Is matches issue.ErrCompilation.
func (e *CompilationError) Is(target error) bool { return target == issue.ErrCompilation }

// Run compiles descs, which may be empty.
func (d *Driver) Run(ctx context.Context, descs []extension.Descriptor) ([]Target, error) {
	if descs == nil {
		descs = []extension.Descriptor{}
	}

	targets, err := d.frontend.Compile(ctx, descs)
	if err != nil {
		var compErr *CompilationError
		if errors.As(err, &compErr) {
			return nil, compErr
		}
		return nil, &CompilationError{ExitCode: 1, Err: err}
	}
	return targets, nil
}

// Compile implements Frontend.
func (f *CommandFrontend) Compile(ctx context.Context, descs []extension.Descriptor) ([]Target, error) {
	payload, err := json.Marshal(request{Extensions: descs})
	if err != nil {
		return nil, fmt.Errorf("failed to encode frontend request: %w", err)
	}

	var stdout bytes.Buffer
	cmd := runner.Command{
		Argv:   f.Command,
		Dir:    f.Dir,
		Stdin:  bytes.NewReader(payload),
		Stdout: &stdout,
		Stderr: f.Stderr,
	}

	res := f.Runner.Run(ctx, cmd)
	if err := res.Err(cmd.String()); err != nil {
		code := res.ExitCode
		if code.IsSuccess() {
			code = 1
		}
		return nil, &CompilationError{ExitCode: code, Err: err}
	}

	return decodeTargets(stdout.Bytes())
}

func decodeTargets(out []byte) ([]Target, error) {
	if len(bytes.TrimSpace(out)) == 0 {
		return nil, nil
	}

	var resp response
	if err := json.Unmarshal(out, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode frontend response: %w", err)
	}
	for i, t := range resp.Targets {
		if t.Name == "" {
			return nil, fmt.Errorf("frontend response: target %d has no name", i)
		}
	}
	return resp.Targets, nil
}
