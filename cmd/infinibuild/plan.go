// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bjoernbethge/infinibuild/internal/config"
	"github.com/bjoernbethge/infinibuild/internal/extension"
	"github.com/bjoernbethge/infinibuild/internal/pipeline"
	"github.com/bjoernbethge/infinibuild/internal/runner"
	"github.com/bjoernbethge/infinibuild/pkg/platform"

	"github.com/spf13/cobra"
)

type (
	planOutput struct {
		Subcommand    string                 `json:"subcommand"`
		Kind          string                 `json:"kind"`
		FullBuildStep bool                   `json:"full_build_step"`
		PackagingOnly bool                   `json:"packaging_only"`
		Sync          syncPlanOutput         `json:"sync"`
		Subsystems    []subsystemPlanOutput  `json:"subsystems"`
		Extensions    []extension.Descriptor `json:"extensions"`
		Notices       []string               `json:"notices"`
	}

	syncPlanOutput struct {
		Action  string   `json:"action"`
		Reason  string   `json:"reason,omitempty"`
		Missing []string `json:"missing,omitempty"`
		Error   string   `json:"error,omitempty"`
	}

	subsystemPlanOutput struct {
		Name    string `json:"name"`
		Command string `json:"command"`
	}
)

func newPlanCommand() *cobra.Command {
	var jsonOutput bool

	planCmd := &cobra.Command{
		Use:   "plan [flags] <subcommand> [args...]",
		Short: "Show what exec would do, without doing it",
		Long: `Show what 'infinibuild exec' would do for the same arguments.

Nothing is fetched, built or compiled. The numeric include directory probe
still runs when an extension module would be assembled.

As with exec, pass host frontend flags such as --help after '--':
'infinibuild plan -- --help'.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(cmd, args, jsonOutput)
		},
	}
	planCmd.Flags().SetInterspersed(false)
	planCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the plan as JSON")

	return planCmd
}

func runPlan(cmd *cobra.Command, args []string, jsonOutput bool) error {
	ctx := cmd.Context()

	proj, err := loadProject(ctx)
	if err != nil {
		return fail(cmd, err)
	}

	cfg := config.Resolve()
	logConfig(newLogger(cmd.ErrOrStderr()), cfg)

	plan, err := pipeline.Plan(ctx, pipeline.Options{
		Config:   cfg,
		Args:     args,
		Platform: platform.Current(),
		Project:  proj,
		Stderr:   cmd.ErrOrStderr(),
	})
	if err != nil {
		return fail(cmd, err)
	}

	out := newPlanOutput(plan)
	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), out)
	}
	renderPlan(cmd.OutOrStdout(), out)
	return nil
}

func newPlanOutput(p *pipeline.PlanReport) planOutput {
	out := planOutput{
		Subcommand:    p.Invocation.Subcommand(),
		Kind:          p.Decision.Kind.String(),
		FullBuildStep: p.Decision.IsFullBuildStep,
		PackagingOnly: p.Decision.PackagingOnly,
		Sync: syncPlanOutput{
			Action: string(p.Sync.Action),
			Reason: p.Sync.Reason,
		},
		Subsystems: make([]subsystemPlanOutput, 0, len(p.Subsystems)),
		Extensions: p.Extensions,
		Notices:    p.Notices,
	}
	if p.Sync.Err != nil {
		out.Sync.Error = p.Sync.Err.Error()
	}
	for _, m := range p.Sync.Missing {
		out.Sync.Missing = append(out.Sync.Missing, m.Path)
	}
	for _, s := range p.Subsystems {
		out.Subsystems = append(out.Subsystems, subsystemPlanOutput{Name: s.Subsystem.String(), Command: runner.Quote(s.Command)})
	}
	if out.Extensions == nil {
		out.Extensions = []extension.Descriptor{}
	}
	if out.Notices == nil {
		out.Notices = []string{}
	}
	return out
}

func renderPlan(w io.Writer, p planOutput) {
	fmt.Fprintln(w, TitleStyle.Render("Build plan for "+p.Subcommand))
	fmt.Fprintln(w)

	step := "administrative command"
	if p.FullBuildStep {
		step = "full build step"
	}
	fmt.Fprintln(w, SubtitleStyle.Render("Invocation"))
	fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("%s: %s (%s)", CmdStyle.Render("kind"), p.Kind, step)))
	fmt.Fprintln(w)

	fmt.Fprintln(w, SubtitleStyle.Render("Submodules"))
	syncLine := fmt.Sprintf("%s: %s", CmdStyle.Render("action"), p.Sync.Action)
	switch {
	case p.Sync.Reason != "":
		syncLine += " (" + p.Sync.Reason + ")"
	case len(p.Sync.Missing) > 0:
		syncLine += " (" + strings.Join(p.Sync.Missing, ", ") + ")"
	case p.Sync.Error != "":
		syncLine += " (" + WarningStyle.Render(p.Sync.Error) + ")"
	}
	fmt.Fprintln(w, sectionStyle.Render(syncLine))
	fmt.Fprintln(w)

	fmt.Fprintln(w, SubtitleStyle.Render("Subsystems"))
	if len(p.Subsystems) == 0 {
		fmt.Fprintln(w, sectionStyle.Render(SubtitleStyle.Render("none")))
	}
	for _, s := range p.Subsystems {
		fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("%s: %s", CmdStyle.Render(s.Name), s.Command)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, SubtitleStyle.Render("Extensions"))
	if len(p.Extensions) == 0 {
		fmt.Fprintln(w, sectionStyle.Render(SubtitleStyle.Render("none")))
	}
	for _, d := range p.Extensions {
		fmt.Fprintln(w, sectionStyle.Render(fmt.Sprintf("%s: %s", CmdStyle.Render(d.Name), strings.Join(d.Sources, ", "))))
	}

	for _, n := range p.Notices {
		fmt.Fprintln(w)
		fmt.Fprintln(w, WarningStyle.Render("! ")+n)
	}
}
