// SPDX-License-Identifier: MPL-2.0

// Package project resolves the on-disk layout of the project being built:
// where the submodule manifest lives, which commands build the native
// subsystems, which sources make up each extension module, and how the
// compiler frontend is invoked.
//
// The layout is read from infinibuild.cue at the project root, or from the
// [tool.infinibuild] table of pyproject.toml, and falls back to built-in
// defaults for every key that neither file sets.
package project

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"mvdan.cc/sh/v3/shell"

	"github.com/bjoernbethge/infinibuild/internal/issue"
	"github.com/bjoernbethge/infinibuild/pkg/cueutil"
)

const (
	// FileName is the project layout file looked up at the project root.
	FileName = "infinibuild.cue"
	// PyprojectFileName is the fallback layout source.
	PyprojectFileName = "pyproject.toml"
	// toolTable is the key under [tool] read from pyproject.toml.
	toolTable = "infinibuild"
)

//go:embed project_schema.cue
var projectSchema string

type (
	rawProject struct {
		Submodules rawSubmodules `mapstructure:"submodules"`
		Subsystems rawSubsystems `mapstructure:"subsystems"`
		Extensions rawExtensions `mapstructure:"extensions"`
		Frontend   rawFrontend   `mapstructure:"frontend"`
	}

	rawSubmodules struct {
		Manifest     string `mapstructure:"manifest"`
		Fetcher      string `mapstructure:"fetcher"`
		FetchCommand string `mapstructure:"fetch_command"`
	}

	rawSubsystems struct {
		Terrain  string `mapstructure:"terrain"`
		Renderer string `mapstructure:"renderer"`
	}

	rawExtensions struct {
		AuxGeometry           rawExtension `mapstructure:"aux_geometry"`
		Terrain               rawExtension `mapstructure:"terrain"`
		NumericIncludeDir     string       `mapstructure:"numeric_include_dir"`
		NumericIncludeCommand string       `mapstructure:"numeric_include_command"`
	}

	rawExtension struct {
		Name    string   `mapstructure:"name"`
		Sources []string `mapstructure:"sources"`
	}

	rawFrontend struct {
		Command string `mapstructure:"command"`
	}

	pyproject struct {
		Tool map[string]any `toml:"tool"`
	}
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("submodules.manifest", ".gitmodules")
	v.SetDefault("submodules.fetcher", string(FetcherCommand))
	v.SetDefault("submodules.fetch_command", "git submodule update --init --recursive")
	v.SetDefault("subsystems.terrain", "make terrain")
	v.SetDefault("subsystems.renderer", "make customgt")
	v.SetDefault("extensions.aux_geometry.name", "bnurbs")
	v.SetDefault("extensions.aux_geometry.sources", []string{"infinigen/assets/utils/geometry/cpp_utils/bnurbs.pyx"})
	v.SetDefault("extensions.terrain.name", "infinigen.terrain.marching_cubes")
	v.SetDefault("extensions.terrain.sources", []string{"infinigen/terrain/marching_cubes/_marching_cubes_lewiner_cy.pyx"})
	v.SetDefault("extensions.numeric_include_dir", "")
	v.SetDefault("extensions.numeric_include_command", `python3 -c "import numpy; print(numpy.get_include())"`)
	v.SetDefault("frontend.command", "python3 tools/build_frontend.py")
}

// Default returns the built-in layout rooted at root.
func Default(root string) (*Project, error) {
	v := viper.New()
	setDefaults(v)
	return decode(v, root, "")
}

// Load resolves the layout of the project rooted at root.
func Load(ctx context.Context, root string) (*Project, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load project layout canceled: %w", ctx.Err())
	default:
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project root: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	source := ""
	cuePath := filepath.Join(absRoot, FileName)
	tomlPath := filepath.Join(absRoot, PyprojectFileName)

	switch {
	case fileExists(cuePath):
		if err := loadCUEIntoViper(v, cuePath); err != nil {
			return nil, invalidProjectFile(cuePath, err)
		}
		source = cuePath
	case fileExists(tomlPath):
		found, err := loadPyprojectIntoViper(v, tomlPath)
		if err != nil {
			return nil, invalidProjectFile(tomlPath, err)
		}
		if found {
			source = tomlPath
		}
	}

	p, err := decode(v, absRoot, source)
	if err != nil {
		return nil, invalidProjectFile(source, err)
	}
	return p, nil
}

func decode(v *viper.Viper, root, source string) (*Project, error) {
	var raw rawProject
	if err := v.Unmarshal(&raw); err != nil {
		return nil, fmt.Errorf("failed to parse project layout: %w", err)
	}

	p := &Project{
		Root:              root,
		Source:            source,
		SubmoduleManifest: raw.Submodules.Manifest,
		Fetcher:           FetcherKind(raw.Submodules.Fetcher),
		AuxGeometry:       Extension{Name: raw.Extensions.AuxGeometry.Name, Sources: raw.Extensions.AuxGeometry.Sources},
		TerrainExtension:  Extension{Name: raw.Extensions.Terrain.Name, Sources: raw.Extensions.Terrain.Sources},
		NumericIncludeDir: raw.Extensions.NumericIncludeDir,
	}
	if err := p.Fetcher.Validate(); err != nil {
		return nil, err
	}

	commands := []struct {
		key string
		in  string
		out *[]string
	}{
		{"submodules.fetch_command", raw.Submodules.FetchCommand, &p.FetchCommand},
		{"subsystems.terrain", raw.Subsystems.Terrain, &p.TerrainCommand},
		{"subsystems.renderer", raw.Subsystems.Renderer, &p.RendererCommand},
		{"extensions.numeric_include_command", raw.Extensions.NumericIncludeCommand, &p.NumericIncludeCommand},
		{"frontend.command", raw.Frontend.Command, &p.FrontendCommand},
	}
	for _, c := range commands {
		argv, err := SplitCommand(c.in)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", c.key, err)
		}
		*c.out = argv
	}

	return p, nil
}

// SplitCommand splits a command line into argv using shell word rules.
// Environment variable references are expanded from the process environment.
func SplitCommand(line string) ([]string, error) {
	argv, err := shell.Fields(line, os.Getenv)
	if err != nil {
		return nil, fmt.Errorf("invalid command %q: %w", line, err)
	}
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	return argv, nil
}

// Path resolves a project-relative path against the root.
func (p *Project) Path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// loadCUEIntoViper parses a CUE file, validates it against the #Project schema,
// and merges its contents into Viper.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read project file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	ctx := cuecontext.New()
	userValue := ctx.CompileBytes(data, cue.Filename(path))
	if userValue.Err() != nil {
		return cueutil.FormatError(userValue.Err(), path)
	}

	return mergeValidated(v, ctx, userValue, path)
}

// loadPyprojectIntoViper merges the [tool.infinibuild] table, if present.
func loadPyprojectIntoViper(v *viper.Viper, path string) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return false, fmt.Errorf("failed to read pyproject: %w", err)
	}

	var doc pyproject
	if err := toml.Unmarshal(data, &doc); err != nil {
		return false, fmt.Errorf("failed to parse pyproject: %w", err)
	}

	table, ok := doc.Tool[toolTable]
	if !ok {
		return false, nil
	}
	if _, isMap := table.(map[string]any); !isMap {
		return false, fmt.Errorf("[tool.%s] must be a table", toolTable)
	}

	ctx := cuecontext.New()
	return true, mergeValidated(v, ctx, ctx.Encode(table), path)
}

func mergeValidated(v *viper.Viper, ctx *cue.Context, userValue cue.Value, path string) error {
	schemaValue := ctx.CompileString(projectSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile project schema: %w", schemaValue.Err())
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Project"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var configMap map[string]any
	if err := unified.Decode(&configMap); err != nil {
		return cueutil.FormatError(err, path)
	}

	if err := v.MergeConfigMap(configMap); err != nil {
		return fmt.Errorf("failed to merge project layout: %w", err)
	}
	return nil
}

func invalidProjectFile(path string, err error) error {
	return issue.NewErrorContext().
		WithKind(issue.ErrConfiguration).
		WithIssue(issue.ProjectFileInvalidId).
		WithOperation("load project layout").
		WithResource(path).
		WithSuggestion("Check the file syntax and the field names").
		WithSuggestion("Run 'infinibuild config show' to see the effective layout").
		Wrap(err).
		BuildError()
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
