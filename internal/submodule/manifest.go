// SPDX-License-Identifier: MPL-2.0

package submodule

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-git/go-git/v5/config"
)

// ErrInvalidPath is the sentinel error wrapped by InvalidPathError.
var ErrInvalidPath = errors.New("invalid submodule path")

type (
	// Descriptor is one declared submodule.
	Descriptor struct {
		// Name is the section name in the manifest.
		Name string
		// Path is relative to the project root, slash-separated.
		Path string
	}

	// InvalidPathError is returned when a manifest path is absolute or
	// escapes the project root.
	InvalidPathError struct {
		Name string
		Path string
	}
)

// Error implements the error interface.
func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("submodule %q: path %q must be relative to the project root", e.Name, e.Path)
}

// Unwrap returns ErrInvalidPath so callers can use errors.Is for programmatic detection.
func (e *InvalidPathError) Unwrap() error { return ErrInvalidPath }

// ParseManifest parses a .gitmodules document. Descriptors are sorted by path.
func ParseManifest(data []byte) ([]Descriptor, error) {
	modules := config.NewModules()
	if err := modules.Unmarshal(data); err != nil {
		return nil, fmt.Errorf("failed to parse submodule manifest: %w", err)
	}

	descs := make([]Descriptor, 0, len(modules.Submodules))
	for name, sm := range modules.Submodules {
		if err := sm.Validate(); err != nil {
			return nil, fmt.Errorf("submodule %q: %w", name, err)
		}
		p := strings.TrimSpace(sm.Path)
		if !isRelative(p) {
			return nil, &InvalidPathError{Name: name, Path: sm.Path}
		}
		descs = append(descs, Descriptor{Name: name, Path: path.Clean(filepath.ToSlash(p))})
	}

	slices.SortFunc(descs, func(a, b Descriptor) int { return strings.Compare(a.Path, b.Path) })
	return descs, nil
}

// LoadManifest reads and parses the manifest at path.
func LoadManifest(manifestPath string) ([]Descriptor, error) {
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read submodule manifest: %w", err)
	}
	return ParseManifest(data)
}

// Abs resolves the descriptor path against root.
func (d Descriptor) Abs(root string) string {
	return filepath.Join(root, filepath.FromSlash(d.Path))
}

func isRelative(p string) bool {
	if p == "" || filepath.IsAbs(p) || path.IsAbs(filepath.ToSlash(p)) || filepath.VolumeName(p) != "" {
		return false
	}
	clean := path.Clean(filepath.ToSlash(p))
	return clean != ".." && !strings.HasPrefix(clean, "../")
}
