// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for infinibuild.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bjoernbethge/infinibuild/internal/issue"
	"github.com/bjoernbethge/infinibuild/internal/project"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging and issue help output
	verbose bool
	// projectRoot is the directory holding the project being built
	projectRoot string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "infinibuild",
		Short: "Build orchestration for native extensions and subsystems",
		Long: TitleStyle.Render("infinibuild") + SubtitleStyle.Render(" - Build orchestration for native extensions and subsystems") + `

infinibuild runs inside a package build. It decides whether git submodules
must be fetched, which native subsystems (terrain, renderer) are built with
their own build commands, and which native extension modules are handed to
the compiler frontend.

Feature toggles are read from the environment:
  MINIMAL_INSTALL_FLAG        skip every native step (default False)
  INSTALL_TERRAIN_FLAG        build the terrain subsystem and extension (default True)
  INSTALL_RENDERER_FLAG       build the renderer subsystem (default False)
  INSTALL_AUX_GEOMETRY_FLAG   build the auxiliary geometry extension (default False)

` + SubtitleStyle.Render("Examples:") + `
  infinibuild exec build_ext --inplace   Run the build for 'build_ext'
  infinibuild plan bdist_wheel           Show what a wheel build would do
  infinibuild config show                Show toggles and project layout`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&projectRoot, "project-root", "C", ".", "project root directory")

	rootCmd.AddCommand(newExecCommand())
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newConfigCommand())
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the root command and returns the process exit code.
func Run() int {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			return int(exitErr.Code)
		}
		return 1
	}
	return 0
}

// Execute runs the CLI and exits the process. It is called by main.main().
func Execute() {
	os.Exit(Run())
}

// newLogger returns the CLI logger writing to w.
func newLogger(w io.Writer) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "infinibuild",
		Level:  level,
	})
}

func loadProject(ctx context.Context) (*project.Project, error) {
	return project.Load(ctx, projectRoot)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}
