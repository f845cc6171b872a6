// SPDX-License-Identifier: MPL-2.0

// Package platform provides host platform detection.
//
// The build core only distinguishes two platform families: POSIX hosts, where
// native subsystems and extension modules can be built, and Windows hosts,
// where those features are unavailable.
package platform
