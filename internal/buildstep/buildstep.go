// SPDX-License-Identifier: MPL-2.0

// Package buildstep decides whether an invocation performs compilation work.
//
// Subcommand tokens are looked up exactly in a fixed table of command kinds.
// A token that is not in the table is treated as a full build step.
package buildstep

import (
	"github.com/bjoernbethge/infinibuild/internal/invocation"
)

const (
	// KindUnknown is any token missing from the table; it builds.
	KindUnknown CommandKind = iota
	// KindBuild is the "build" command.
	KindBuild
	// KindBuildExt is the "build_ext" command.
	KindBuildExt
	// KindBuildPy is the "build_py" command.
	KindBuildPy
	// KindDevelop is the "develop" command.
	KindDevelop
	// KindInstall is the "install" command.
	KindInstall
	// KindEditableWheel is the "editable_wheel" command used by editable installs.
	KindEditableWheel
	// KindBdist is the "bdist" command.
	KindBdist
	// KindBdistWheel is the "bdist_wheel" command.
	KindBdistWheel
	// KindBdistEgg is the "bdist_egg" command.
	KindBdistEgg
	// KindSdist is the "sdist" command.
	KindSdist
	// KindClean is the "clean" command.
	KindClean
	// KindEggInfo is the "egg_info" command.
	KindEggInfo
	// KindDistInfo is the "dist_info" command.
	KindDistInfo
	// KindHelp covers "--help", "-h" and "--help-commands".
	KindHelp
)

// CommandKind is the category of a host frontend subcommand.
type CommandKind int

// Decision is the classification of one invocation.
type Decision struct {
	// Kind is the kind of the subcommand token.
	Kind CommandKind
	// IsFullBuildStep is false for administrative commands that must not
	// trigger native compilation.
	IsFullBuildStep bool
	// PackagingOnly is true when any argument names a packaging command;
	// such invocations do not fetch submodules.
	PackagingOnly bool
}

var (
	kinds = map[string]CommandKind{
		"build":           KindBuild,
		"build_ext":       KindBuildExt,
		"build_py":        KindBuildPy,
		"develop":         KindDevelop,
		"install":         KindInstall,
		"editable_wheel":  KindEditableWheel,
		"bdist":           KindBdist,
		"bdist_wheel":     KindBdistWheel,
		"bdist_egg":       KindBdistEgg,
		"sdist":           KindSdist,
		"clean":           KindClean,
		"egg_info":        KindEggInfo,
		"dist_info":       KindDistInfo,
		"--help":          KindHelp,
		"-h":              KindHelp,
		"--help-commands": KindHelp,
	}

	names = map[CommandKind]string{
		KindUnknown:       "unknown",
		KindBuild:         "build",
		KindBuildExt:      "build_ext",
		KindBuildPy:       "build_py",
		KindDevelop:       "develop",
		KindInstall:       "install",
		KindEditableWheel: "editable_wheel",
		KindBdist:         "bdist",
		KindBdistWheel:    "bdist_wheel",
		KindBdistEgg:      "bdist_egg",
		KindSdist:         "sdist",
		KindClean:         "clean",
		KindEggInfo:       "egg_info",
		KindDistInfo:      "dist_info",
		KindHelp:          "help",
	}
)

// Lookup returns the kind registered for token, or KindUnknown.
func Lookup(token string) CommandKind {
	return kinds[token]
}

// IsAdministrative reports whether the kind only cleans, generates metadata,
// packages sources, or prints help.
func (k CommandKind) IsAdministrative() bool {
	switch k {
	case KindClean, KindEggInfo, KindDistInfo, KindSdist, KindHelp:
		return true
	default:
		return false
	}
}

// IsPackaging reports whether the kind is one of the exact packaging tokens
// "build", "bdist" or "sdist". Variants such as "bdist_wheel" are not.
func (k CommandKind) IsPackaging() bool {
	switch k {
	case KindBuild, KindBdist, KindSdist:
		return true
	default:
		return false
	}
}

// String returns the canonical token of the kind.
func (k CommandKind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return names[KindUnknown]
}

// Classify inspects the invocation arguments.
func Classify(inv *invocation.Context) Decision {
	kind := Lookup(inv.Subcommand())

	packaging := false
	for _, arg := range inv.Args() {
		if Lookup(arg).IsPackaging() {
			packaging = true
			break
		}
	}

	return Decision{
		Kind:            kind,
		IsFullBuildStep: !kind.IsAdministrative(),
		PackagingOnly:   packaging,
	}
}
