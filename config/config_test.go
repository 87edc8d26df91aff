package config

import (
	"os"
	"testing"

	"github.com/orbitalarena/trajx/integrate"
)

func TestDefaultMatchesNamedPresets(t *testing.T) {
	bundle := Default()
	if bundle.EarthOrbit != integrate.PresetEarthOrbit {
		t.Fatalf("expected EarthOrbit preset to match integrate.PresetEarthOrbit")
	}
	if bundle.Interplanetary != integrate.PresetInterplanetary {
		t.Fatalf("expected Interplanetary preset to match integrate.PresetInterplanetary")
	}
	if bundle.Flyby != integrate.PresetFlyby {
		t.Fatalf("expected Flyby preset to match integrate.PresetFlyby")
	}
}

func TestLoadFallsBackWhenEnvUnset(t *testing.T) {
	os.Unsetenv("TRAJX_CONFIG")
	bundle := Load()
	if bundle.EarthOrbit != integrate.PresetEarthOrbit {
		t.Fatalf("expected fallback to compiled-in defaults when TRAJX_CONFIG is unset")
	}
}

func TestLoadFallsBackWhenFileMissing(t *testing.T) {
	os.Setenv("TRAJX_CONFIG", "/nonexistent/path/that/should/not/exist")
	defer os.Unsetenv("TRAJX_CONFIG")
	bundle := Load()
	if bundle.Flyby != integrate.PresetFlyby {
		t.Fatalf("expected fallback to compiled-in defaults when the config file is absent")
	}
}
