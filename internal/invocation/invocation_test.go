// SPDX-License-Identifier: MPL-2.0

package invocation

import (
	"errors"
	"testing"

	"github.com/bjoernbethge/infinibuild/internal/issue"
	"github.com/bjoernbethge/infinibuild/pkg/platform"
)

func TestNew(t *testing.T) {
	t.Parallel()

	args := []string{"build_ext", "--inplace"}
	ctx, err := New(args, platform.FamilyPOSIX)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if ctx.Subcommand() != "build_ext" {
		t.Errorf("Subcommand() = %q, want build_ext", ctx.Subcommand())
	}
	if ctx.IsWindows() {
		t.Error("IsWindows() = true on posix")
	}

	args[0] = "mutated"
	if ctx.Subcommand() != "build_ext" {
		t.Error("context must not alias the caller's slice")
	}
	got := ctx.Args()
	got[1] = "mutated"
	if ctx.Args()[1] != "--inplace" {
		t.Error("Args() must return a copy")
	}
}

func TestNew_MissingSubcommand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"nil", nil},
		{"empty", []string{}},
		{"blank token", []string{"  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.args, platform.FamilyPOSIX)
			if !errors.Is(err, issue.ErrConfiguration) {
				t.Errorf("New(%q) error = %v, want ErrConfiguration", tt.args, err)
			}
			if !errors.Is(err, ErrNoSubcommand) {
				t.Errorf("New(%q) error = %v, want ErrNoSubcommand", tt.args, err)
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.ID != issue.SubcommandMissingId {
				t.Errorf("expected ActionableError linked to SubcommandMissingId, got %v", err)
			}
		})
	}
}

func TestNew_InvalidPlatform(t *testing.T) {
	t.Parallel()

	_, err := New([]string{"build"}, platform.Family("beos"))
	if !errors.Is(err, platform.ErrInvalidFamily) {
		t.Errorf("New() error = %v, want ErrInvalidFamily", err)
	}
}
