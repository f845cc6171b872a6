// SPDX-License-Identifier: MPL-2.0

package buildstep

import (
	"testing"

	"github.com/bjoernbethge/infinibuild/internal/invocation"
	"github.com/bjoernbethge/infinibuild/pkg/platform"
)

func mustInvocation(t *testing.T, args ...string) *invocation.Context {
	t.Helper()
	inv, err := invocation.New(args, platform.FamilyPOSIX)
	if err != nil {
		t.Fatalf("invocation.New(%q) error = %v", args, err)
	}
	return inv
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		args          []string
		wantKind      CommandKind
		wantFullBuild bool
		wantPackaging bool
	}{
		{"build_ext", []string{"build_ext", "--inplace"}, KindBuildExt, true, false},
		{"build", []string{"build"}, KindBuild, true, true},
		{"bdist", []string{"bdist"}, KindBdist, true, true},
		{"bdist_wheel", []string{"bdist_wheel"}, KindBdistWheel, true, false},
		{"bdist_egg", []string{"bdist_egg"}, KindBdistEgg, true, false},
		{"develop", []string{"develop"}, KindDevelop, true, false},
		{"install", []string{"install"}, KindInstall, true, false},
		{"editable_wheel", []string{"editable_wheel"}, KindEditableWheel, true, false},
		{"sdist", []string{"sdist"}, KindSdist, false, true},
		{"clean", []string{"clean", "--all"}, KindClean, false, false},
		{"egg_info", []string{"egg_info"}, KindEggInfo, false, false},
		{"dist_info", []string{"dist_info", "--output-dir", "x"}, KindDistInfo, false, false},
		{"help", []string{"--help"}, KindHelp, false, false},
		{"short help", []string{"-h"}, KindHelp, false, false},
		{"unknown token", []string{"test"}, KindUnknown, true, false},
		{"chained packaging", []string{"egg_info", "bdist"}, KindEggInfo, false, true},
		{"chained wheel", []string{"egg_info", "bdist_wheel"}, KindEggInfo, false, false},
		// Exact lookup: substrings of excluded tokens no longer match.
		{"sdist substring", []string{"sdist_extra"}, KindUnknown, true, false},
		{"clean substring", []string{"cleanup"}, KindUnknown, true, false},
		{"build in option", []string{"build_ext", "--build-temp", "build"}, KindBuildExt, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Classify(mustInvocation(t, tt.args...))
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.IsFullBuildStep != tt.wantFullBuild {
				t.Errorf("IsFullBuildStep = %v, want %v", got.IsFullBuildStep, tt.wantFullBuild)
			}
			if got.PackagingOnly != tt.wantPackaging {
				t.Errorf("PackagingOnly = %v, want %v", got.PackagingOnly, tt.wantPackaging)
			}
		})
	}
}

func TestCommandKind_String(t *testing.T) {
	t.Parallel()

	for token, kind := range kinds {
		if kind == KindHelp {
			continue
		}
		if kind.String() != token {
			t.Errorf("CommandKind(%d).String() = %q, want %q", kind, kind.String(), token)
		}
	}
	if KindHelp.String() != "help" {
		t.Errorf("KindHelp.String() = %q", KindHelp.String())
	}
	if CommandKind(999).String() != "unknown" {
		t.Errorf("out-of-range kind should render as unknown")
	}
}
