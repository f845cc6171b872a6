// SPDX-License-Identifier: MPL-2.0

// Package subsystem dispatches the out-of-process builds of the native
// subsystems (terrain, renderer).
//
// Each enabled subsystem is attempted independently. A failing build is
// recorded in the Report and never prevents the next subsystem from being
// attempted.
package subsystem

import (
	"context"
	"fmt"

	"github.com/bjoernbethge/infinibuild/internal/buildstep"
	"github.com/bjoernbethge/infinibuild/internal/config"
	"github.com/bjoernbethge/infinibuild/internal/invocation"
	"github.com/bjoernbethge/infinibuild/internal/issue"
	"github.com/bjoernbethge/infinibuild/internal/runner"
)

const (
	// Terrain is the terrain generation subsystem.
	Terrain Subsystem = "terrain"
	// Renderer is the custom ground-truth rendering subsystem.
	Renderer Subsystem = "renderer"
)

const (
	// OutcomeSucceeded means the build command exited with status 0.
	OutcomeSucceeded Outcome = iota + 1
	// OutcomeFailed means the command was missing or exited non-zero.
	OutcomeFailed
	// OutcomeSkipped means the subsystem is disabled and its command was not run.
	OutcomeSkipped
)

// WindowsNotice is emitted instead of dispatching on Windows hosts.
const WindowsNotice = "terrain and renderer features are unavailable on windows; core functionality is fully supported"

// Order is the dispatch order. The subsystems do not depend on each other.
var Order = []Subsystem{Terrain, Renderer}

type (
	// Subsystem names an independently built native component.
	Subsystem string

	// Outcome is the result category of one dispatch attempt.
	Outcome int

	// Attempt records one subsystem dispatch.
	Attempt struct {
		Subsystem Subsystem
		Outcome   Outcome
		Command   []string
		// Reason is set when Outcome is OutcomeFailed; it is a *NativeBuildError.
		Reason error
	}

	// Report is the result of one Dispatch call.
	Report struct {
		Attempts []Attempt
		Notices  []string
	}

	// NativeBuildError reports a failed subsystem build.
	NativeBuildError struct {
		Subsystem Subsystem
		Err       error
	}

	// Dispatcher runs the subsystem build commands in the project root.
	Dispatcher struct {
		runner   runner.Runner
		root     string
		commands map[Subsystem][]string
	}
)

// NewDispatcher creates a dispatcher. commands maps each subsystem to its build argv.
func NewDispatcher(r runner.Runner, root string, commands map[Subsystem][]string) *Dispatcher {
	return &Dispatcher{runner: r, root: root, commands: commands}
}

// Error implements the error interface.
func (e *NativeBuildError) Error() string {
	return fmt.Sprintf("failed to build %s components, continuing without %s support: %v", e.Subsystem, e.Subsystem, e.Err)
}

// Unwrap returns the underlying error.
func (e *NativeBuildError) Unwrap() error { return e.Err }

// Is matches issue.ErrNativeBuild.
func (e *NativeBuildError) Is(target error) bool { return target == issue.ErrNativeBuild }

// Enabled reports whether cfg turns the subsystem on.
func (s Subsystem) Enabled(cfg config.BuildConfiguration) bool {
	switch s {
	case Terrain:
		return cfg.BuildTerrain()
	case Renderer:
		return cfg.BuildRenderer()
	default:
		return false
	}
}

// Gate reports whether subsystem dispatch runs at all for this invocation.
// It ignores the platform; see Planned.
func Gate(cfg config.BuildConfiguration, decision buildstep.Decision) bool {
	return decision.IsFullBuildStep && !cfg.MinimalInstall()
}

// Planned returns the subsystems Dispatch would attempt, in order.
func Planned(cfg config.BuildConfiguration, inv *invocation.Context, decision buildstep.Decision) []Subsystem {
	if !Gate(cfg, decision) || inv.IsWindows() {
		return nil
	}
	var planned []Subsystem
	for _, s := range Order {
		if s.Enabled(cfg) {
			planned = append(planned, s)
		}
	}
	return planned
}

// Dispatch builds every planned subsystem, one after the other.
func (d *Dispatcher) Dispatch(ctx context.Context, cfg config.BuildConfiguration, inv *invocation.Context, decision buildstep.Decision) Report {
	var report Report
	if !Gate(cfg, decision) {
		return report
	}
	if inv.IsWindows() {
		report.Notices = append(report.Notices, WindowsNotice)
		return report
	}

	for _, s := range Order {
		if !s.Enabled(cfg) {
			report.Attempts = append(report.Attempts, Attempt{Subsystem: s, Outcome: OutcomeSkipped})
			continue
		}
		report.Attempts = append(report.Attempts, d.attempt(ctx, s))
	}
	return report
}

func (d *Dispatcher) attempt(ctx context.Context, s Subsystem) Attempt {
	argv := d.commands[s]
	if len(argv) == 0 {
		return Attempt{
			Subsystem: s,
			Outcome:   OutcomeFailed,
			Reason:    &NativeBuildError{Subsystem: s, Err: fmt.Errorf("no build command configured")},
		}
	}

	cmd := runner.Command{Argv: argv, Dir: d.root}
	if err := d.runner.Run(ctx, cmd).Err(cmd.String()); err != nil {
		return Attempt{Subsystem: s, Outcome: OutcomeFailed, Command: argv, Reason: &NativeBuildError{Subsystem: s, Err: err}}
	}
	return Attempt{Subsystem: s, Outcome: OutcomeSucceeded, Command: argv}
}

// Failures returns the reasons of the failed attempts.
func (r Report) Failures() []error {
	var errs []error
	for _, a := range r.Attempts {
		if a.Outcome == OutcomeFailed {
			errs = append(errs, a.Reason)
		}
	}
	return errs
}

// String returns the subsystem name.
func (s Subsystem) String() string { return string(s) }

// String returns a short label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeFailed:
		return "failed"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}
