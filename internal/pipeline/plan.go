// SPDX-License-Identifier: MPL-2.0

package pipeline

import (
	"context"

	"github.com/bjoernbethge/infinibuild/internal/buildstep"
	"github.com/bjoernbethge/infinibuild/internal/config"
	"github.com/bjoernbethge/infinibuild/internal/extension"
	"github.com/bjoernbethge/infinibuild/internal/invocation"
	"github.com/bjoernbethge/infinibuild/internal/submodule"
	"github.com/bjoernbethge/infinibuild/internal/subsystem"
)

const (
	// SyncActionSkip means synchronization is gated off.
	SyncActionSkip SyncAction = "skip"
	// SyncActionNone means every declared submodule is populated.
	SyncActionNone SyncAction = "none"
	// SyncActionFetch means the fetcher would run.
	SyncActionFetch SyncAction = "fetch"
	// SyncActionUnknown means the manifest could not be inspected.
	SyncActionUnknown SyncAction = "unknown"
)

type (
	// SyncAction is what the submodule step would do.
	SyncAction string

	// SyncPlan describes the planned submodule step.
	SyncPlan struct {
		Action  SyncAction
		Reason  string
		Missing []submodule.Descriptor
		Err     error
	}

	// SubsystemPlan is one planned subsystem build.
	SubsystemPlan struct {
		Subsystem subsystem.Subsystem
		Command   []string
	}

	// PlanReport is the outcome of Plan.
	PlanReport struct {
		Config     config.BuildConfiguration
		Invocation *invocation.Context
		Decision   buildstep.Decision
		Sync       SyncPlan
		Subsystems []SubsystemPlan
		Extensions []extension.Descriptor
		Notices    []string
	}
)

// Plan computes the decisions of Run without fetching, building or
// compiling anything. Only the numeric include probe is executed, and only
// when an extension would be assembled.
func Plan(ctx context.Context, opts Options) (*PlanReport, error) {
	inv, err := invocation.New(opts.Args, opts.Platform)
	if err != nil {
		return nil, err
	}
	if opts.Project == nil {
		return nil, ErrNoProject
	}

	c := build(opts)
	p := opts.Project
	report := &PlanReport{
		Config:     opts.Config,
		Invocation: inv,
		Decision:   buildstep.Classify(inv),
	}

	report.Sync = planSync(opts, inv, report.Decision)

	if subsystem.Gate(opts.Config, report.Decision) && inv.IsWindows() {
		report.Notices = append(report.Notices, subsystem.WindowsNotice)
	}
	commands := map[subsystem.Subsystem][]string{
		subsystem.Terrain:  p.TerrainCommand,
		subsystem.Renderer: p.RendererCommand,
	}
	for _, s := range subsystem.Planned(opts.Config, inv, report.Decision) {
		report.Subsystems = append(report.Subsystems, SubsystemPlan{Subsystem: s, Command: commands[s]})
	}

	descs, err := c.assembler.Assemble(ctx, opts.Config, inv.Platform())
	if err != nil {
		return report, err
	}
	report.Extensions = descs
	return report, nil
}

func planSync(opts Options, inv *invocation.Context, decision buildstep.Decision) SyncPlan {
	if reason := syncSkipReason(opts.Config, inv, decision); reason != "" {
		return SyncPlan{Action: SyncActionSkip, Reason: reason}
	}

	p := opts.Project
	declared, err := submodule.LoadManifest(p.Path(p.SubmoduleManifest))
	if err != nil {
		return SyncPlan{Action: SyncActionUnknown, Err: err}
	}
	missing, err := submodule.Missing(p.Root, declared)
	if err != nil {
		return SyncPlan{Action: SyncActionUnknown, Err: err}
	}
	if len(missing) == 0 {
		return SyncPlan{Action: SyncActionNone}
	}
	return SyncPlan{Action: SyncActionFetch, Missing: missing}
}
