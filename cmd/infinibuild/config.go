// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/bjoernbethge/infinibuild/internal/config"
	"github.com/bjoernbethge/infinibuild/internal/project"
	"github.com/bjoernbethge/infinibuild/internal/runner"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `infinibuild config` command tree.
func newConfigCommand() *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect infinibuild configuration",
		Long: `Inspect infinibuild configuration.

Feature toggles come from the environment. The project layout is read from
infinibuild.cue at the project root, else from the [tool.infinibuild] table
of pyproject.toml, else built-in defaults are used.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the resolved toggles and project layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := loadProject(cmd.Context())
			if err != nil {
				return fail(cmd, err)
			}
			showConfig(cmd.OutOrStdout(), config.Resolve(), proj)
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg config.BuildConfiguration, p *project.Project) {
	keyStyle := CmdStyle

	fmt.Fprintln(w, TitleStyle.Render("Feature toggles"))
	fmt.Fprintln(w)
	for _, f := range cfg.Flags() {
		fmt.Fprintf(w, "%s: %s %s\n",
			keyStyle.Render(f.Key),
			boolStyle(f.Value).Render(fmt.Sprint(f.Value)),
			SubtitleStyle.Render(fmt.Sprintf("(%s, default %v)", f.Env, f.Default)))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, TitleStyle.Render("Project layout"))
	fmt.Fprintln(w)
	source := p.Source
	if source == "" {
		source = SubtitleStyle.Render("(built-in defaults)")
	}
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("root"), p.Root)
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("source"), source)
	fmt.Fprintln(w)

	includeDir := p.NumericIncludeDir
	if includeDir == "" {
		includeDir = SubtitleStyle.Render("(probed)")
	}

	rows := [][2]string{
		{"submodules.manifest", p.SubmoduleManifest},
		{"submodules.fetcher", p.Fetcher.String()},
		{"submodules.fetch_command", runner.Quote(p.FetchCommand)},
		{"subsystems.terrain", runner.Quote(p.TerrainCommand)},
		{"subsystems.renderer", runner.Quote(p.RendererCommand)},
		{"extensions.aux_geometry", p.AuxGeometry.Name + " " + SubtitleStyle.Render(strings.Join(p.AuxGeometry.Sources, ", "))},
		{"extensions.terrain", p.TerrainExtension.Name + " " + SubtitleStyle.Render(strings.Join(p.TerrainExtension.Sources, ", "))},
		{"extensions.numeric_include_dir", includeDir},
		{"extensions.numeric_include_command", runner.Quote(p.NumericIncludeCommand)},
		{"frontend.command", runner.Quote(p.FrontendCommand)},
	}
	for _, r := range rows {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render(r[0]), r[1])
	}
}
