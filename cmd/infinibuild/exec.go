// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/bjoernbethge/infinibuild/internal/compile"
	"github.com/bjoernbethge/infinibuild/internal/config"
	"github.com/bjoernbethge/infinibuild/internal/pipeline"
	"github.com/bjoernbethge/infinibuild/pkg/platform"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

type (
	execOutput struct {
		Targets  []compile.Target `json:"targets"`
		Warnings []warningOutput  `json:"warnings"`
		Notices  []string         `json:"notices"`
	}

	warningOutput struct {
		Step  string `json:"step"`
		Error string `json:"error"`
	}
)

func newExecCommand() *cobra.Command {
	var jsonOutput bool

	execCmd := &cobra.Command{
		Use:   "exec [flags] <subcommand> [args...]",
		Short: "Run the build for one host frontend invocation",
		Long: `Run the build for one host frontend invocation.

The arguments after the flags are the host build frontend's arguments,
subcommand first (e.g. 'build_ext --inplace'). Submodule, subsystem and
extension failures are reported as warnings; only a failing compiler
frontend makes the command fail, with the frontend's exit status.

Arguments that look like infinibuild flags, such as --help, go after '--'
to reach the host frontend: 'infinibuild exec -- --help'.

Compiled build targets are printed one per line.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, args, jsonOutput)
		},
	}
	// Everything after the subcommand belongs to the host frontend.
	execCmd.Flags().SetInterspersed(false)
	execCmd.Flags().BoolVar(&jsonOutput, "json", false, "print targets, warnings and notices as JSON")

	return execCmd
}

func runExec(cmd *cobra.Command, args []string, jsonOutput bool) error {
	ctx := cmd.Context()
	logger := newLogger(cmd.ErrOrStderr())

	proj, err := loadProject(ctx)
	if err != nil {
		return fail(cmd, err)
	}

	cfg := config.Resolve()
	logConfig(logger, cfg)

	report, err := pipeline.Run(ctx, pipeline.Options{
		Config:   cfg,
		Args:     args,
		Platform: platform.Current(),
		Project:  proj,
		Stderr:   cmd.ErrOrStderr(),
	})
	if report != nil {
		logReport(logger, report)
	}
	if err != nil {
		return fail(cmd, err)
	}

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), newExecOutput(report))
	}
	for _, t := range report.Targets {
		fmt.Fprintln(cmd.OutOrStdout(), t.Name)
	}
	return nil
}

func newExecOutput(r *pipeline.Report) execOutput {
	out := execOutput{
		Targets:  r.Targets,
		Warnings: make([]warningOutput, 0, len(r.Warnings)),
		Notices:  r.Notices,
	}
	if out.Targets == nil {
		out.Targets = []compile.Target{}
	}
	if out.Notices == nil {
		out.Notices = []string{}
	}
	for _, w := range r.Warnings {
		out.Warnings = append(out.Warnings, warningOutput{Step: string(w.Step), Error: w.Err.Error()})
	}
	return out
}

func logConfig(logger *log.Logger, cfg config.BuildConfiguration) {
	for _, f := range cfg.Flags() {
		logger.Debug("resolved toggle", "key", f.Key, "env", f.Env, "value", f.Value)
	}
}

// logReport surfaces what the pipeline did. Notices are informational;
// warnings name the step that failed.
func logReport(logger *log.Logger, r *pipeline.Report) {
	logger.Debug("classified invocation",
		"subcommand", r.Invocation.Subcommand(),
		"kind", r.Decision.Kind,
		"full_build", r.Decision.IsFullBuildStep,
		"packaging_only", r.Decision.PackagingOnly)

	if r.Sync.Ran {
		logger.Debug("submodule sync",
			"outcome", r.Sync.Result.Outcome,
			"declared", len(r.Sync.Result.Declared),
			"missing", len(r.Sync.Result.Missing))
	}
	for _, a := range r.Dispatch.Attempts {
		logger.Debug("subsystem build", "subsystem", a.Subsystem, "outcome", a.Outcome)
	}
	for _, d := range r.Extensions {
		logger.Debug("extension", "name", d.Name, "sources", len(d.Sources))
	}

	for _, n := range r.Notices {
		logger.Info(n)
	}
	for _, w := range r.Warnings {
		logger.Warn("step failed, continuing", "step", w.Step, "error", w.Err)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
