// SPDX-License-Identifier: MPL-2.0

package submodule

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/bjoernbethge/infinibuild/internal/testutil"
)

const manifest = `[submodule "infinigen/datagen/customgt/dependencies/eigen"]
	path = infinigen/datagen/customgt/dependencies/eigen
	url = https://gitlab.com/libeigen/eigen.git
[submodule "infinigen/OcMesher"]
	path = infinigen/OcMesher
	url = https://github.com/princeton-vl/OcMesher.git
`

func TestParseManifest(t *testing.T) {
	t.Parallel()

	descs, err := ParseManifest([]byte(manifest))
	if err != nil {
		t.Fatalf("ParseManifest() error = %v", err)
	}
	if len(descs) != 2 {
		t.Fatalf("ParseManifest() returned %d descriptors, want 2", len(descs))
	}

	// Sorted by path.
	if descs[0].Path != "infinigen/OcMesher" {
		t.Errorf("descs[0].Path = %q", descs[0].Path)
	}
	if descs[1].Name != "infinigen/datagen/customgt/dependencies/eigen" {
		t.Errorf("descs[1].Name = %q", descs[1].Name)
	}
}

func TestParseManifest_Empty(t *testing.T) {
	t.Parallel()

	descs, err := ParseManifest(nil)
	if err != nil {
		t.Fatalf("ParseManifest(nil) error = %v", err)
	}
	if len(descs) != 0 {
		t.Errorf("ParseManifest(nil) = %v, want none", descs)
	}
}

func TestParseManifest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr error
	}{
		{
			name:    "absolute path",
			data:    "[submodule \"x\"]\n\tpath = /opt/x\n\turl = https://example.com/x.git\n",
			wantErr: ErrInvalidPath,
		},
		{
			name: "missing path",
			data: "[submodule \"x\"]\n\turl = https://example.com/x.git\n",
		},
		{
			name: "missing url",
			data: "[submodule \"x\"]\n\tpath = deps/x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ParseManifest([]byte(tt.data))
			if err == nil {
				t.Fatal("ParseManifest() error = nil, want error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ParseManifest() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadManifest_Missing(t *testing.T) {
	t.Parallel()

	if _, err := LoadManifest(filepath.Join(t.TempDir(), ".gitmodules")); err == nil {
		t.Error("LoadManifest() of a missing file should fail")
	}
}

func TestMissing(t *testing.T) {
	t.Parallel()

	root := testutil.NewProjectDir(t, map[string]string{
		"deps/full/README": "x",
	})
	testutil.MustMkdirAll(t, filepath.Join(root, "deps", "empty"), 0o755)

	descs := []Descriptor{
		{Name: "full", Path: "deps/full"},
		{Name: "empty", Path: "deps/empty"},
		{Name: "absent", Path: "deps/absent"},
	}

	missing, err := Missing(root, descs)
	if err != nil {
		t.Fatalf("Missing() error = %v", err)
	}
	if len(missing) != 2 || missing[0].Name != "empty" || missing[1].Name != "absent" {
		t.Errorf("Missing() = %+v, want empty and absent", missing)
	}
}

func TestMissing_NotADirectory(t *testing.T) {
	t.Parallel()

	root := testutil.NewProjectDir(t, map[string]string{"deps/file": "x"})
	if _, err := Missing(root, []Descriptor{{Name: "file", Path: "deps/file"}}); err == nil {
		t.Error("Missing() should fail when a declared path is a regular file")
	}
}
