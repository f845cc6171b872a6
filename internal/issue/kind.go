// SPDX-License-Identifier: MPL-2.0

package issue

import "errors"

var (
	// ErrConfiguration marks a malformed or missing input: an unreadable
	// manifest, an invalid project file, or an invocation without a subcommand.
	ErrConfiguration = errors.New("configuration error")
	// ErrSubmoduleSync marks a failed dependency fetch.
	ErrSubmoduleSync = errors.New("submodule synchronization failed")
	// ErrNativeBuild marks a failed native subsystem build command.
	ErrNativeBuild = errors.New("native subsystem build failed")
	// ErrCompilation marks a failed compiler frontend invocation.
	ErrCompilation = errors.New("extension compilation failed")
)

// IsFatal reports whether err must terminate the packaging run.
func IsFatal(err error) bool {
	return errors.Is(err, ErrCompilation) || errors.Is(err, ErrConfiguration)
}
