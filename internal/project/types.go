// SPDX-License-Identifier: MPL-2.0

package project

import (
	"errors"
	"fmt"
)

const (
	// FetcherCommand fetches submodules by running an external command.
	FetcherCommand FetcherKind = "command"
	// FetcherBuiltin fetches submodules in-process through go-git.
	FetcherBuiltin FetcherKind = "builtin"
)

// ErrInvalidFetcherKind is the sentinel error wrapped by InvalidFetcherKindError.
var ErrInvalidFetcherKind = errors.New("invalid fetcher kind")

type (
	// FetcherKind selects how missing submodules are fetched.
	FetcherKind string

	// InvalidFetcherKindError is returned when a FetcherKind value is not recognized.
	InvalidFetcherKindError struct {
		Value FetcherKind
	}

	// Extension names a native extension module and its sources.
	Extension struct {
		Name    string
		Sources []string
	}

	// Project is the resolved layout of the project being built.
	Project struct {
		// Root is the absolute project root.
		Root string
		// Source is the file the layout was read from; empty for built-in defaults.
		Source string

		SubmoduleManifest string
		Fetcher           FetcherKind
		FetchCommand      []string

		TerrainCommand  []string
		RendererCommand []string

		AuxGeometry      Extension
		TerrainExtension Extension

		// NumericIncludeDir, when set, skips the NumericIncludeCommand probe.
		NumericIncludeDir     string
		NumericIncludeCommand []string

		FrontendCommand []string
	}
)

// Error implements the error interface.
func (e *InvalidFetcherKindError) Error() string {
	return fmt.Sprintf("invalid fetcher %q (valid: command, builtin)", e.Value)
}

// Unwrap returns ErrInvalidFetcherKind so callers can use errors.Is for programmatic detection.
func (e *InvalidFetcherKindError) Unwrap() error { return ErrInvalidFetcherKind }

// Validate returns an error if the FetcherKind is not one of the defined kinds.
func (k FetcherKind) Validate() error {
	switch k {
	case FetcherCommand, FetcherBuiltin:
		return nil
	default:
		return &InvalidFetcherKindError{Value: k}
	}
}

// String returns the string representation of the FetcherKind.
func (k FetcherKind) String() string { return string(k) }
