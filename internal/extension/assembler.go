// SPDX-License-Identifier: MPL-2.0

package extension

import (
	"context"

	"github.com/bjoernbethge/infinibuild/internal/config"
	"github.com/bjoernbethge/infinibuild/internal/issue"
	"github.com/bjoernbethge/infinibuild/pkg/platform"
)

type (
	// Template is a descriptor without include directories.
	Template struct {
		Name    string
		Sources []string
	}

	// Assembler builds the descriptor list for one invocation.
	Assembler struct {
		auxGeometry Template
		terrain     Template
		include     IncludeResolver
	}

	gate struct {
		enabled  func(config.BuildConfiguration) bool
		template Template
	}
)

// NewAssembler creates an assembler for the two known extension modules.
func NewAssembler(auxGeometry, terrain Template, include IncludeResolver) *Assembler {
	return &Assembler{auxGeometry: auxGeometry, terrain: terrain, include: include}
}

// Planned returns the templates whose gates pass, in assembly order.
func (a *Assembler) Planned(cfg config.BuildConfiguration, family platform.Family) []Template {
	if cfg.MinimalInstall() || family.IsWindows() {
		return nil
	}

	gates := []gate{
		{enabled: config.BuildConfiguration.BuildAuxGeometry, template: a.auxGeometry},
		{enabled: config.BuildConfiguration.BuildTerrain, template: a.terrain},
	}

	var planned []Template
	for _, g := range gates {
		if g.enabled(cfg) {
			planned = append(planned, g.template)
		}
	}
	return planned
}

// Assemble returns the descriptors to compile. An empty result is valid.
func (a *Assembler) Assemble(ctx context.Context, cfg config.BuildConfiguration, family platform.Family) ([]Descriptor, error) {
	planned := a.Planned(cfg, family)
	if len(planned) == 0 {
		return nil, nil
	}

	includeDir, err := a.include.NumericIncludeDir(ctx)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithKind(issue.ErrConfiguration).
			WithIssue(issue.NumericHeadersNotFoundId).
			WithOperation("locate numeric array library headers").
			WithSuggestion("Install numpy into the build environment").
			WithSuggestion("Or set extensions.numeric_include_dir in infinibuild.cue").
			Wrap(err).
			BuildError()
	}

	descs := make([]Descriptor, 0, len(planned))
	for _, tpl := range planned {
		d := Descriptor{
			Name:        tpl.Name,
			Sources:     append([]string(nil), tpl.Sources...),
			IncludeDirs: []string{includeDir},
		}
		if err := d.Validate(); err != nil {
			return nil, issue.NewErrorContext().
				WithKind(issue.ErrConfiguration).
				WithOperation("assemble extension descriptors").
				WithResource(tpl.Name).
				Wrap(err).
				BuildError()
		}
		descs = append(descs, d)
	}
	return descs, nil
}
