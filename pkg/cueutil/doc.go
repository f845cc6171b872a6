// SPDX-License-Identifier: MPL-2.0

// Package cueutil formats CUE evaluation errors for users and guards the
// size of CUE input before it is compiled.
//
// Errors are reported as
//
//	<file>: <field path>: <message>
//
// where the field path uses JSON-path notation, e.g.
// extensions.terrain.sources[0].
package cueutil
