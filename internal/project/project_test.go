// SPDX-License-Identifier: MPL-2.0

package project

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/bjoernbethge/infinibuild/internal/issue"
	"github.com/bjoernbethge/infinibuild/internal/testutil"
)

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	root := testutil.NewProjectDir(t, nil)
	p, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.Source != "" {
		t.Errorf("Source = %q, want empty for built-in defaults", p.Source)
	}
	if p.SubmoduleManifest != ".gitmodules" {
		t.Errorf("SubmoduleManifest = %q, want .gitmodules", p.SubmoduleManifest)
	}
	if p.Fetcher != FetcherCommand {
		t.Errorf("Fetcher = %q, want %q", p.Fetcher, FetcherCommand)
	}
	if !slices.Equal(p.FetchCommand, []string{"git", "submodule", "update", "--init", "--recursive"}) {
		t.Errorf("FetchCommand = %q", p.FetchCommand)
	}
	if !slices.Equal(p.TerrainCommand, []string{"make", "terrain"}) {
		t.Errorf("TerrainCommand = %q", p.TerrainCommand)
	}
	if !slices.Equal(p.RendererCommand, []string{"make", "customgt"}) {
		t.Errorf("RendererCommand = %q", p.RendererCommand)
	}
	if p.AuxGeometry.Name != "bnurbs" || len(p.AuxGeometry.Sources) != 1 {
		t.Errorf("AuxGeometry = %+v", p.AuxGeometry)
	}
	if p.TerrainExtension.Name != "infinigen.terrain.marching_cubes" {
		t.Errorf("TerrainExtension.Name = %q", p.TerrainExtension.Name)
	}
	wantProbe := []string{"python3", "-c", "import numpy; print(numpy.get_include())"}
	if !slices.Equal(p.NumericIncludeCommand, wantProbe) {
		t.Errorf("NumericIncludeCommand = %q, want %q", p.NumericIncludeCommand, wantProbe)
	}
	if !filepath.IsAbs(p.Root) {
		t.Errorf("Root = %q, want an absolute path", p.Root)
	}
}

func TestLoad_CUEFile(t *testing.T) {
	t.Parallel()

	root := testutil.NewProjectDir(t, map[string]string{
		FileName: `
submodules: {
	fetcher: "builtin"
	manifest: "deps/.gitmodules"
}
subsystems: renderer: "make -j4 customgt"
extensions: {
	terrain: sources: ["a.pyx", "b.pyx"]
	numeric_include_dir: "/opt/numpy/include"
}
frontend: command: "cythonize -i"
`,
	})

	p, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.Source != filepath.Join(p.Root, FileName) {
		t.Errorf("Source = %q", p.Source)
	}
	if p.Fetcher != FetcherBuiltin {
		t.Errorf("Fetcher = %q, want builtin", p.Fetcher)
	}
	if p.SubmoduleManifest != "deps/.gitmodules" {
		t.Errorf("SubmoduleManifest = %q", p.SubmoduleManifest)
	}
	if !slices.Equal(p.RendererCommand, []string{"make", "-j4", "customgt"}) {
		t.Errorf("RendererCommand = %q", p.RendererCommand)
	}
	// Keys the file does not set keep their defaults.
	if !slices.Equal(p.TerrainCommand, []string{"make", "terrain"}) {
		t.Errorf("TerrainCommand = %q, want default", p.TerrainCommand)
	}
	if p.TerrainExtension.Name != "infinigen.terrain.marching_cubes" {
		t.Errorf("TerrainExtension.Name = %q, want default", p.TerrainExtension.Name)
	}
	if !slices.Equal(p.TerrainExtension.Sources, []string{"a.pyx", "b.pyx"}) {
		t.Errorf("TerrainExtension.Sources = %q", p.TerrainExtension.Sources)
	}
	if p.NumericIncludeDir != "/opt/numpy/include" {
		t.Errorf("NumericIncludeDir = %q", p.NumericIncludeDir)
	}
	if !slices.Equal(p.FrontendCommand, []string{"cythonize", "-i"}) {
		t.Errorf("FrontendCommand = %q", p.FrontendCommand)
	}
}

func TestLoad_Pyproject(t *testing.T) {
	t.Parallel()

	root := testutil.NewProjectDir(t, map[string]string{
		PyprojectFileName: `
[project]
name = "infinigen"

[tool.infinibuild.subsystems]
terrain = "make terrain_gpu"

[tool.infinibuild.extensions.aux_geometry]
name = "geometry.bnurbs"
sources = ["geometry/bnurbs.pyx"]
`,
	})

	p, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Source != filepath.Join(p.Root, PyprojectFileName) {
		t.Errorf("Source = %q", p.Source)
	}
	if !slices.Equal(p.TerrainCommand, []string{"make", "terrain_gpu"}) {
		t.Errorf("TerrainCommand = %q", p.TerrainCommand)
	}
	if p.AuxGeometry.Name != "geometry.bnurbs" || !slices.Equal(p.AuxGeometry.Sources, []string{"geometry/bnurbs.pyx"}) {
		t.Errorf("AuxGeometry = %+v", p.AuxGeometry)
	}
}

func TestLoad_PyprojectWithoutToolTable(t *testing.T) {
	t.Parallel()

	root := testutil.NewProjectDir(t, map[string]string{
		PyprojectFileName: "[project]\nname = \"infinigen\"\n",
	})

	p, err := Load(context.Background(), root)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Source != "" {
		t.Errorf("Source = %q, want defaults when [tool.infinibuild] is absent", p.Source)
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
	}{
		{"cue syntax", map[string]string{FileName: "subsystems: {"}},
		{"unknown field", map[string]string{FileName: `subsystems: gpu: "make gpu"`}},
		{"bad fetcher", map[string]string{FileName: `submodules: fetcher: "svn"`}},
		{"empty sources", map[string]string{FileName: `extensions: terrain: sources: []`}},
		{"unbalanced quote", map[string]string{FileName: `frontend: command: "python3 'x"`}},
		{"toml syntax", map[string]string{PyprojectFileName: "[tool.infinibuild\n"}},
		{"toml schema", map[string]string{PyprojectFileName: "[tool.infinibuild.submodules]\nfetcher = \"svn\"\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			root := testutil.NewProjectDir(t, tt.files)
			_, err := Load(context.Background(), root)
			if !errors.Is(err, issue.ErrConfiguration) {
				t.Fatalf("Load() error = %v, want ErrConfiguration", err)
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.ID != issue.ProjectFileInvalidId {
				t.Errorf("expected ActionableError linked to ProjectFileInvalidId, got %v", err)
			}
		})
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Load(ctx, t.TempDir()); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v, want context.Canceled", err)
	}
}

func TestSplitCommand(t *testing.T) {
	t.Parallel()

	argv, err := SplitCommand(`python3 -c "print('hi')"`)
	if err != nil {
		t.Fatalf("SplitCommand() error = %v", err)
	}
	if !slices.Equal(argv, []string{"python3", "-c", "print('hi')"}) {
		t.Errorf("SplitCommand() = %q", argv)
	}

	if _, err := SplitCommand("   "); err == nil {
		t.Error("SplitCommand() of a blank line should fail")
	}
}

func TestProject_Path(t *testing.T) {
	t.Parallel()

	p := &Project{Root: filepath.FromSlash("/src/proj")}
	if got := p.Path("deps/x"); got != filepath.Join(p.Root, "deps", "x") {
		t.Errorf("Path() = %q", got)
	}
	abs := filepath.Join(t.TempDir(), "x")
	if got := p.Path(abs); got != abs {
		t.Errorf("Path(abs) = %q, want %q", got, abs)
	}
}

func TestFetcherKind_Validate(t *testing.T) {
	t.Parallel()

	if err := FetcherKind("git").Validate(); !errors.Is(err, ErrInvalidFetcherKind) {
		t.Errorf("Validate() = %v, want ErrInvalidFetcherKind", err)
	}
	if err := FetcherBuiltin.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}
