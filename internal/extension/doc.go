// SPDX-License-Identifier: MPL-2.0

// Package extension assembles the descriptors of the native extension
// modules that the compiler frontend builds.
//
// Two modules are known: the auxiliary geometry extension and the terrain
// acceleration extension. Each is gated independently on its feature toggle
// and on the host not being Windows. Every descriptor is compiled against the
// numeric array library headers, whose location is resolved at most once per
// assembly and only when at least one descriptor is produced.
package extension
