// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"fmt"
	"runtime"
)

// OS name constants for runtime.GOOS comparisons.
// Centralizes the string literals to avoid scattered magic strings.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

const (
	// FamilyPOSIX covers Linux, macOS and the other Unix-like systems.
	FamilyPOSIX Family = "posix"
	// FamilyWindows covers Windows hosts.
	FamilyWindows Family = "windows"
)

// ErrInvalidFamily is the sentinel error wrapped by InvalidFamilyError.
var ErrInvalidFamily = errors.New("invalid platform family")

type (
	// Family is the platform family an invocation runs on.
	Family string

	// InvalidFamilyError is returned when a Family value is not recognized.
	InvalidFamilyError struct {
		Value Family
	}
)

// Error implements the error interface.
func (e *InvalidFamilyError) Error() string {
	return fmt.Sprintf("invalid platform family %q (valid: posix, windows)", e.Value)
}

// Unwrap returns ErrInvalidFamily so callers can use errors.Is for programmatic detection.
func (e *InvalidFamilyError) Unwrap() error { return ErrInvalidFamily }

// FromGOOS maps a runtime.GOOS value to its platform family.
func FromGOOS(goos string) Family {
	if goos == Windows {
		return FamilyWindows
	}
	return FamilyPOSIX
}

// Current returns the family of the host the process runs on.
func Current() Family {
	return FromGOOS(runtime.GOOS)
}

// Validate returns an error if the Family is not one of the known families.
func (f Family) Validate() error {
	switch f {
	case FamilyPOSIX, FamilyWindows:
		return nil
	default:
		return &InvalidFamilyError{Value: f}
	}
}

// IsWindows reports whether the family is Windows.
func (f Family) IsWindows() bool { return f == FamilyWindows }

// String returns the string representation of the Family.
func (f Family) String() string { return string(f) }
