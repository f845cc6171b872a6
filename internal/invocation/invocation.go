// SPDX-License-Identifier: MPL-2.0

// Package invocation captures what the host build frontend asked for: the
// ordered argument list and the platform family the build runs on.
package invocation

import (
	"errors"
	"slices"
	"strings"

	"github.com/bjoernbethge/infinibuild/internal/issue"
	"github.com/bjoernbethge/infinibuild/pkg/platform"
)

// ErrNoSubcommand is returned when the argument list carries no subcommand token.
var ErrNoSubcommand = errors.New("no subcommand token in invocation arguments")

// Context is the read-only description of one invocation.
type Context struct {
	args   []string
	family platform.Family
}

// New validates args and family and returns the invocation context.
// The first argument is the subcommand token; it must be present and non-blank.
func New(args []string, family platform.Family) (*Context, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return nil, issue.NewErrorContext().
			WithKind(issue.ErrConfiguration).
			WithIssue(issue.SubcommandMissingId).
			WithOperation("classify invocation").
			WithSuggestion("Pass the host frontend subcommand, e.g. 'build_ext' or 'sdist'").
			Wrap(ErrNoSubcommand).
			BuildError()
	}
	if err := family.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithKind(issue.ErrConfiguration).
			WithOperation("detect platform").
			Wrap(err).
			BuildError()
	}

	return &Context{args: slices.Clone(args), family: family}, nil
}

// FromHost builds the context for args on the current host platform.
func FromHost(args []string) (*Context, error) {
	return New(args, platform.Current())
}

// Subcommand returns the first argument token.
func (c *Context) Subcommand() string { return c.args[0] }

// Args returns a copy of the full argument list.
func (c *Context) Args() []string { return slices.Clone(c.args) }

// Platform returns the platform family.
func (c *Context) Platform() platform.Family { return c.family }

// IsWindows reports whether the invocation runs on a Windows host.
func (c *Context) IsWindows() bool { return c.family.IsWindows() }
