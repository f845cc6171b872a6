// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bjoernbethge/infinibuild/internal/buildstep"
	"github.com/bjoernbethge/infinibuild/internal/compile"
	"github.com/bjoernbethge/infinibuild/internal/config"
	"github.com/bjoernbethge/infinibuild/internal/extension"
	"github.com/bjoernbethge/infinibuild/internal/invocation"
	"github.com/bjoernbethge/infinibuild/internal/project"
	"github.com/bjoernbethge/infinibuild/internal/runner"
	"github.com/bjoernbethge/infinibuild/internal/submodule"
	"github.com/bjoernbethge/infinibuild/internal/subsystem"
	"github.com/bjoernbethge/infinibuild/pkg/platform"
)

const (
	// StepSubmodules is the submodule synchronization step.
	StepSubmodules Step = "submodules"
	// StepSubsystems is the native subsystem dispatch step.
	StepSubsystems Step = "subsystems"
	// StepExtensions is the extension descriptor assembly step.
	StepExtensions Step = "extensions"
	// StepCompile is the compiler frontend step.
	StepCompile Step = "compile"
)

// ErrNoProject is returned when Options carries no project layout.
var ErrNoProject = errors.New("project layout is required")

type (
	// Step names one pipeline stage in warnings.
	Step string

	// Options configures one Run or Plan.
	Options struct {
		// Config is the resolved feature toggles.
		Config config.BuildConfiguration
		// Args is the host frontend's argument list, subcommand first.
		Args []string
		// Platform is the host platform family.
		Platform platform.Family
		// Project is the project layout. Required.
		Project *project.Project

		// Runner executes external commands. Defaults to an ExecRunner
		// that forwards child output to Stderr.
		Runner runner.Runner
		// Fetcher overrides the fetcher selected by the project layout.
		Fetcher submodule.Fetcher
		// Include overrides the numeric include resolver of the project layout.
		Include extension.IncludeResolver
		// Frontend overrides the compiler frontend of the project layout.
		Frontend compile.Frontend
		// Stderr receives external command diagnostics. Defaults to os.Stderr.
		Stderr io.Writer
	}

	// Warning is a recovered failure of an optional step.
	Warning struct {
		Step Step
		Err  error
	}

	// SyncReport describes the submodule step.
	SyncReport struct {
		// Ran is false when the step was gated off.
		Ran bool
		// SkipReason explains why the step did not run.
		SkipReason string
		Result     submodule.Result
	}

	// Report is the outcome of one Run.
	Report struct {
		Config     config.BuildConfiguration
		Invocation *invocation.Context
		Decision   buildstep.Decision
		Sync       SyncReport
		Dispatch   subsystem.Report
		Extensions []extension.Descriptor
		Targets    []compile.Target
		Warnings   []Warning
		Notices    []string
	}

	components struct {
		sync      *submodule.Synchronizer
		dispatch  *subsystem.Dispatcher
		assembler *extension.Assembler
		driver    *compile.Driver
	}
)

// Error implements the error interface.
func (w Warning) Error() string {
	return fmt.Sprintf("%s: %v", w.Step, w.Err)
}

// Unwrap returns the recovered error.
func (w Warning) Unwrap() error { return w.Err }

// Run executes the pipeline once. The returned Report is non-nil whenever
// the invocation was valid, also when a fatal error is returned.
func Run(ctx context.Context, opts Options) (*Report, error) {
	inv, err := invocation.New(opts.Args, opts.Platform)
	if err != nil {
		return nil, err
	}
	if opts.Project == nil {
		return nil, ErrNoProject
	}

	c := build(opts)
	report := &Report{
		Config:     opts.Config,
		Invocation: inv,
		Decision:   buildstep.Classify(inv),
	}

	report.Sync = syncStep(ctx, c.sync, opts.Config, inv, report.Decision)
	if report.Sync.Ran {
		if res := report.Sync.Result; res.Outcome == submodule.OutcomeFailed {
			report.warn(StepSubmodules, res.Err)
		}
	} else {
		report.Notices = append(report.Notices, report.Sync.SkipReason)
	}

	report.Dispatch = c.dispatch.Dispatch(ctx, opts.Config, inv, report.Decision)
	report.Notices = append(report.Notices, report.Dispatch.Notices...)
	for _, failure := range report.Dispatch.Failures() {
		report.warn(StepSubsystems, failure)
	}

	descs, err := c.assembler.Assemble(ctx, opts.Config, inv.Platform())
	if err != nil {
		return report, err
	}
	report.Extensions = descs

	targets, err := c.driver.Run(ctx, descs)
	if err != nil {
		return report, err
	}
	report.Targets = targets
	return report, nil
}

func syncStep(ctx context.Context, s *submodule.Synchronizer, cfg config.BuildConfiguration, inv *invocation.Context, decision buildstep.Decision) SyncReport {
	if reason := syncSkipReason(cfg, inv, decision); reason != "" {
		return SyncReport{SkipReason: reason}
	}
	return SyncReport{Ran: true, Result: s.Sync(ctx)}
}

func syncSkipReason(cfg config.BuildConfiguration, inv *invocation.Context, decision buildstep.Decision) string {
	switch {
	case cfg.MinimalInstall():
		return "minimal install: skipping submodule synchronization"
	case decision.PackagingOnly:
		return fmt.Sprintf("packaging command %q: skipping submodule synchronization", inv.Subcommand())
	default:
		return ""
	}
}

func (r *Report) warn(step Step, err error) {
	r.Warnings = append(r.Warnings, Warning{Step: step, Err: err})
}

func build(opts Options) components {
	p := opts.Project

	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}
	r := opts.Runner
	if r == nil {
		r = runner.NewExecRunner(stderr, stderr)
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = newFetcher(p, r)
	}
	include := opts.Include
	if include == nil {
		include = newIncludeResolver(p, r)
	}
	frontend := opts.Frontend
	if frontend == nil {
		frontend = &compile.CommandFrontend{Runner: r, Command: p.FrontendCommand, Dir: p.Root, Stderr: stderr}
	}

	return components{
		sync: submodule.NewSynchronizer(p.Root, p.Path(p.SubmoduleManifest), fetcher),
		dispatch: subsystem.NewDispatcher(r, p.Root, map[subsystem.Subsystem][]string{
			subsystem.Terrain:  p.TerrainCommand,
			subsystem.Renderer: p.RendererCommand,
		}),
		assembler: extension.NewAssembler(
			extension.Template{Name: p.AuxGeometry.Name, Sources: p.AuxGeometry.Sources},
			extension.Template{Name: p.TerrainExtension.Name, Sources: p.TerrainExtension.Sources},
			include,
		),
		driver: compile.NewDriver(frontend),
	}
}

func newFetcher(p *project.Project, r runner.Runner) submodule.Fetcher {
	if p.Fetcher == project.FetcherBuiltin {
		return submodule.RepositoryFetcher{}
	}
	return submodule.NewCommandFetcher(r, p.FetchCommand)
}

func newIncludeResolver(p *project.Project, r runner.Runner) extension.IncludeResolver {
	if p.NumericIncludeDir != "" {
		return extension.StaticInclude(p.Path(p.NumericIncludeDir))
	}
	return &extension.ProbeInclude{Runner: r, Command: p.NumericIncludeCommand, Dir: p.Root}
}
