// SPDX-License-Identifier: MPL-2.0

// Package pipeline runs one build invocation end to end.
//
// The steps run strictly in sequence: the invocation is validated, missing
// submodules are fetched, the native subsystems are built, the extension
// descriptors are assembled and finally the compiler frontend is invoked.
// Failures of the optional steps are collected as warnings in the Report;
// only configuration errors and compilation failures abort the run.
// The package never prints; callers decide how to surface the Report.
package pipeline
