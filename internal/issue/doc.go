// SPDX-License-Identifier: MPL-2.0

// Package issue provides the error taxonomy of the build core and actionable,
// user-friendly error messages.
//
// Every failure the core can report belongs to one of four kinds, exposed as
// sentinel errors for errors.Is: ErrConfiguration, ErrSubmoduleSync,
// ErrNativeBuild and ErrCompilation. Only compilation failures are fatal to a
// packaging run; the others are either recovered as warnings or abort before
// any work starts.
package issue
