// SPDX-License-Identifier: MPL-2.0

package submodule

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/bjoernbethge/infinibuild/internal/issue"
)

const (
	// OutcomeUpToDate means every declared path was populated; nothing was fetched.
	OutcomeUpToDate Outcome = iota + 1
	// OutcomeFetched means missing paths were found and the fetch succeeded.
	OutcomeFetched
	// OutcomeFailed means the manifest could not be read or the fetch failed.
	OutcomeFailed
)

type (
	// Outcome is the result category of one synchronization.
	Outcome int

	// Result describes one synchronization.
	Result struct {
		Outcome Outcome
		// Declared lists every submodule in the manifest.
		Declared []Descriptor
		// Missing lists the submodules that were absent or empty before fetching.
		Missing []Descriptor
		// Err is set when Outcome is OutcomeFailed. It wraps
		// issue.ErrConfiguration or issue.ErrSubmoduleSync.
		Err error
	}

	// Synchronizer ensures the declared submodules are present under Root.
	Synchronizer struct {
		root     string
		manifest string
		fetcher  Fetcher
	}
)

// NewSynchronizer creates a synchronizer for the project at root. manifest is
// the absolute path of the submodule manifest.
func NewSynchronizer(root, manifest string, fetcher Fetcher) *Synchronizer {
	return &Synchronizer{root: root, manifest: manifest, fetcher: fetcher}
}

// Sync fetches all submodules once if any declared path is missing or empty.
func (s *Synchronizer) Sync(ctx context.Context) Result {
	declared, err := LoadManifest(s.manifest)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Err: manifestError(s.manifest, err)}
	}

	missing, err := Missing(s.root, declared)
	if err != nil {
		return Result{Outcome: OutcomeFailed, Declared: declared, Err: manifestError(s.manifest, err)}
	}
	if len(missing) == 0 {
		return Result{Outcome: OutcomeUpToDate, Declared: declared}
	}

	if err := s.fetcher.Fetch(ctx, s.root); err != nil {
		return Result{
			Outcome:  OutcomeFailed,
			Declared: declared,
			Missing:  missing,
			Err:      fmt.Errorf("%w: %w", issue.ErrSubmoduleSync, err),
		}
	}
	return Result{Outcome: OutcomeFetched, Declared: declared, Missing: missing}
}

// Missing returns the descriptors whose directory under root does not exist
// or is empty. A declared path that exists but is not a directory is an error.
func Missing(root string, descs []Descriptor) ([]Descriptor, error) {
	var missing []Descriptor
	for _, d := range descs {
		populated, err := populated(d.Abs(root))
		if err != nil {
			return nil, fmt.Errorf("submodule %q: %w", d.Name, err)
		}
		if !populated {
			missing = append(missing, d)
		}
	}
	return missing, nil
}

func populated(dir string) (bool, error) {
	f, err := os.Open(dir)
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if !info.IsDir() {
		return false, fmt.Errorf("%s is not a directory", dir)
	}

	if _, err := f.Readdirnames(1); errors.Is(err, io.EOF) {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func manifestError(path string, err error) error {
	return issue.NewErrorContext().
		WithKind(issue.ErrConfiguration).
		WithIssue(issue.SubmoduleManifestInvalidId).
		WithOperation("read submodule manifest").
		WithResource(path).
		Wrap(err).
		BuildError()
}

// String returns a short label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeUpToDate:
		return "up-to-date"
	case OutcomeFetched:
		return "fetched"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}
