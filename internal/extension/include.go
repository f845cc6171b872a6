// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"bytes"
	"context"
	"errors"
	"strings"

	"github.com/bjoernbethge/infinibuild/internal/runner"
)

// ErrEmptyIncludeDir is returned when the probe printed nothing.
var ErrEmptyIncludeDir = errors.New("include directory probe printed no path")

type (
	// IncludeResolver locates the numeric array library headers.
	IncludeResolver interface {
		NumericIncludeDir(ctx context.Context) (string, error)
	}

	// StaticInclude is a fixed include directory.
	StaticInclude string

	// ProbeInclude asks the interpreter where the installed headers are,
	// e.g. python3 -c "import numpy; print(numpy.get_include())".
	ProbeInclude struct {
		Runner  runner.Runner
		Command []string
		Dir     string
	}
)

// NumericIncludeDir implements IncludeResolver.
func (s StaticInclude) NumericIncludeDir(context.Context) (string, error) {
	if s == "" {
		return "", ErrEmptyIncludeDir
	}
	return string(s), nil
}

// NumericIncludeDir implements IncludeResolver. The last non-empty line of
// the probe's standard output is the directory.
func (p *ProbeInclude) NumericIncludeDir(ctx context.Context) (string, error) {
	var stdout bytes.Buffer
	cmd := runner.Command{Argv: p.Command, Dir: p.Dir, Stdout: &stdout}
	if err := p.Runner.Run(ctx, cmd).Err(cmd.String()); err != nil {
		return "", err
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	dir := strings.TrimSpace(lines[len(lines)-1])
	if dir == "" {
		return "", ErrEmptyIncludeDir
	}
	return dir, nil
}
