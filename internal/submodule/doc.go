// SPDX-License-Identifier: MPL-2.0

// Package submodule keeps the declared external source dependencies of the
// project on disk.
//
// The Synchronizer parses the submodule manifest, checks that every declared
// path exists and is non-empty, and asks its Fetcher to fetch all submodules
// at once when any of them is missing. Failures are reported in the Result,
// never returned as errors: submodules may legitimately be absent, for
// example when building from a pre-packaged source distribution.
package submodule
