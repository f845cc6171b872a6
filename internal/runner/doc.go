// SPDX-License-Identifier: MPL-2.0

// Package runner executes external commands as blocking subprocesses.
//
// Every out-of-process step of the build core (submodule fetch, subsystem
// builds, header probing, the compiler frontend) goes through the Runner
// interface so the orchestration logic can be tested without spawning
// processes.
package runner
