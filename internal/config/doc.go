// SPDX-License-Identifier: MPL-2.0

// Package config resolves the feature toggles of a build invocation.
//
// The toggles are read once, from the process environment, into an immutable
// BuildConfiguration value that is then passed explicitly to every component.
// No other package reads these environment variables.
package config
