// SPDX-License-Identifier: MPL-2.0

package config

import (
	"github.com/spf13/viper"
)

const (
	// TruthToken is the only value that turns a toggle on.
	TruthToken = "True"
	// falseToken is used for defaults only; any value other than TruthToken is false.
	falseToken = "False"

	// EnvMinimalInstall disables submodule sync, native dispatch and extension assembly.
	EnvMinimalInstall = "MINIMAL_INSTALL_FLAG"
	// EnvInstallTerrain enables the terrain subsystem build and terrain extension.
	EnvInstallTerrain = "INSTALL_TERRAIN_FLAG"
	// EnvInstallRenderer enables the renderer subsystem build.
	EnvInstallRenderer = "INSTALL_RENDERER_FLAG"
	// EnvInstallAuxGeometry enables the auxiliary geometry extension.
	EnvInstallAuxGeometry = "INSTALL_AUX_GEOMETRY_FLAG"

	keyMinimalInstall = "minimal_install"
	keyTerrain        = "build_terrain"
	keyRenderer       = "build_renderer"
	keyAuxGeometry    = "build_aux_geometry"
)

type (
	// BuildConfiguration is the immutable snapshot of the feature toggles.
	// The zero value is not the default configuration; use Default or Resolve.
	BuildConfiguration struct {
		minimalInstall   bool
		buildTerrain     bool
		buildRenderer    bool
		buildAuxGeometry bool
	}

	// Flag describes one toggle for display purposes.
	Flag struct {
		Key     string
		Env     string
		Value   bool
		Default bool
	}

	toggle struct {
		key string
		env string
		def bool
	}
)

var toggles = []toggle{
	{key: keyMinimalInstall, env: EnvMinimalInstall, def: false},
	{key: keyTerrain, env: EnvInstallTerrain, def: true},
	{key: keyRenderer, env: EnvInstallRenderer, def: false},
	{key: keyAuxGeometry, env: EnvInstallAuxGeometry, def: false},
}

// New builds a configuration from explicit values.
func New(minimalInstall, buildTerrain, buildRenderer, buildAuxGeometry bool) BuildConfiguration {
	return BuildConfiguration{
		minimalInstall:   minimalInstall,
		buildTerrain:     buildTerrain,
		buildRenderer:    buildRenderer,
		buildAuxGeometry: buildAuxGeometry,
	}
}

// Default returns the configuration used when none of the variables is set.
func Default() BuildConfiguration {
	return New(false, true, false, false)
}

// Resolve reads the toggles from the process environment.
//
// A variable that is absent falls back to its default. A variable that is set
// is true only when it equals TruthToken exactly; an empty or malformed value
// is false. Resolve never fails.
func Resolve() BuildConfiguration {
	v := viper.New()
	// An exported but empty variable is "set", not "absent".
	v.AllowEmptyEnv(true)

	for _, t := range toggles {
		v.SetDefault(t.key, token(t.def))
		_ = v.BindEnv(t.key, t.env) //nolint:errcheck // BindEnv only fails without a key
	}

	enabled := func(key string) bool { return v.GetString(key) == TruthToken }

	return New(
		enabled(keyMinimalInstall),
		enabled(keyTerrain),
		enabled(keyRenderer),
		enabled(keyAuxGeometry),
	)
}

// MinimalInstall reports whether all native work is disabled.
func (c BuildConfiguration) MinimalInstall() bool { return c.minimalInstall }

// BuildTerrain reports whether the terrain subsystem and extension are enabled.
func (c BuildConfiguration) BuildTerrain() bool { return c.buildTerrain }

// BuildRenderer reports whether the renderer subsystem is enabled.
func (c BuildConfiguration) BuildRenderer() bool { return c.buildRenderer }

// BuildAuxGeometry reports whether the auxiliary geometry extension is enabled.
func (c BuildConfiguration) BuildAuxGeometry() bool { return c.buildAuxGeometry }

// Flags lists the toggles in a stable order together with their sources.
func (c BuildConfiguration) Flags() []Flag {
	values := map[string]bool{
		keyMinimalInstall: c.minimalInstall,
		keyTerrain:        c.buildTerrain,
		keyRenderer:       c.buildRenderer,
		keyAuxGeometry:    c.buildAuxGeometry,
	}

	flags := make([]Flag, 0, len(toggles))
	for _, t := range toggles {
		flags = append(flags, Flag{Key: t.key, Env: t.env, Value: values[t.key], Default: t.def})
	}
	return flags
}

func token(b bool) string {
	if b {
		return TruthToken
	}
	return falseToken
}
