// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"errors"
	"fmt"
)

// ErrInvalidDescriptor is the sentinel error wrapped by InvalidDescriptorError.
var ErrInvalidDescriptor = errors.New("invalid extension descriptor")

type (
	// Descriptor specifies one native module to be produced by the compiler frontend.
	Descriptor struct {
		Name        string   `json:"name"`
		Sources     []string `json:"sources"`
		IncludeDirs []string `json:"include_dirs"`
	}

	// InvalidDescriptorError is returned when a Descriptor has no name or no sources.
	InvalidDescriptorError struct {
		Name   string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidDescriptorError) Error() string {
	return fmt.Sprintf("extension %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidDescriptor so callers can use errors.Is for programmatic detection.
func (e *InvalidDescriptorError) Unwrap() error { return ErrInvalidDescriptor }

// Validate checks the descriptor invariants.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return &InvalidDescriptorError{Name: d.Name, Reason: "name must not be empty"}
	}
	if len(d.Sources) == 0 {
		return &InvalidDescriptorError{Name: d.Name, Reason: "at least one source file is required"}
	}
	for _, src := range d.Sources {
		if src == "" {
			return &InvalidDescriptorError{Name: d.Name, Reason: "source file paths must not be empty"}
		}
	}
	return nil
}
