// SPDX-License-Identifier: MPL-2.0

// Package testutil provides helper functions for tests that handle errors
// appropriately, reducing boilerplate and ensuring consistent error handling.
//
// Common helpers include filesystem setup (MustMkdirAll, MustWriteFile,
// NewProjectDir) and FakeRunner, a scripted stand-in for runner.Runner that
// records every command it is asked to execute.
package testutil
