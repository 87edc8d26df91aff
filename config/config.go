// Package config loads the named IntegrationPreset bundles (spec §3,
// Design Notes §2) from an optional TOML file named trajx, the way
// config.go's smdConfig() loads SPICE/Meeus settings. trajx is a library,
// not a CLI: absent TRAJX_CONFIG (the directory searched for that file)
// or the file itself, compiled-in defaults
// (identical in value to integrate's named presets) are used instead of
// panicking.
package config

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/orbitalarena/trajx/integrate"
)

// Bundle holds the three named integration presets, overridable per-field
// by a TOML file, per spec §3.
type Bundle struct {
	EarthOrbit     integrate.IntegrationConfig
	Interplanetary integrate.IntegrationConfig
	Flyby          integrate.IntegrationConfig
}

// Default returns the compiled-in preset bundle, identical to the values
// in integrate.PresetEarthOrbit/PresetInterplanetary/PresetFlyby.
func Default() Bundle {
	return Bundle{
		EarthOrbit:     integrate.PresetEarthOrbit,
		Interplanetary: integrate.PresetInterplanetary,
		Flyby:          integrate.PresetFlyby,
	}
}

// Load returns the preset bundle from the config file named trajx (e.g.
// trajx.toml) in the directory named by TRAJX_CONFIG, falling back silently to Default() when the env var is unset or the
// file can't be read or parsed, per spec §3/Design Notes §2 ("a library
// convenience, not a CLI"; trajx must not panic on absent optional
// config, unlike the teacher's smdConfig(), which panics when
// SMD_CONFIG is missing).
func Load() Bundle {
	bundle := Default()

	confPath := os.Getenv("TRAJX_CONFIG")
	if confPath == "" {
		return bundle
	}

	v := viper.New()
	v.SetConfigName("trajx")
	v.AddConfigPath(confPath)
	if err := v.ReadInConfig(); err != nil {
		return bundle
	}

	overrideFromViper(v, "earth_orbit", &bundle.EarthOrbit)
	overrideFromViper(v, "interplanetary", &bundle.Interplanetary)
	overrideFromViper(v, "flyby", &bundle.Flyby)
	return bundle
}

// overrideFromViper replaces any field the TOML section sets explicitly,
// leaving the compiled-in default for fields the file omits.
func overrideFromViper(v *viper.Viper, section string, cfg *integrate.IntegrationConfig) {
	key := func(name string) string { return fmt.Sprintf("%s.%s", section, name) }

	if v.IsSet(key("min_step")) {
		cfg.MinStep = v.GetFloat64(key("min_step"))
	}
	if v.IsSet(key("max_step")) {
		cfg.MaxStep = v.GetFloat64(key("max_step"))
	}
	if v.IsSet(key("abs_tol")) {
		cfg.AbsTol = v.GetFloat64(key("abs_tol"))
	}
	if v.IsSet(key("rel_tol")) {
		cfg.RelTol = v.GetFloat64(key("rel_tol"))
	}
	if v.IsSet(key("safety_factor")) {
		cfg.SafetyFactor = v.GetFloat64(key("safety_factor"))
	}
	if v.IsSet(key("max_steps")) {
		cfg.MaxSteps = v.GetInt(key("max_steps"))
	}
}
