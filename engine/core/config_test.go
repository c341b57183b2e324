package core

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !cfg.Hierarchy.CheckCycles {
		t.Error("cycle checks should be on by default")
	}
}

func TestParseConfigOverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
[log]
level = "debug"

[hierarchy]
check_cycles = false
`))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level=%q; expected debug", cfg.Log.Level)
	}
	if cfg.Hierarchy.CheckCycles {
		t.Error("hierarchy.check_cycles should be false")
	}
	// untouched keys keep their defaults
	if cfg.Hierarchy.InitialCapacity != DefaultConfig().Hierarchy.InitialCapacity {
		t.Errorf("hierarchy.initial_capacity=%d; expected the default", cfg.Hierarchy.InitialCapacity)
	}
	if !cfg.Log.ReportCaller {
		t.Error("log.report_caller should keep its default")
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"syntax", `[log`},
		{"unknown key", "[hierarchy]\nmax_depth = 3\n"},
		{"bad level", "[log]\nlevel = \"loud\"\n"},
		{"negative capacity", "[hierarchy]\ninitial_capacity = -1\n"},
		{"negative frames", "[testbed]\nframes = -1\n"},
	}
	for _, tt := range tests {
		if _, err := ParseConfig([]byte(tt.input)); err == nil {
			t.Errorf("%s: expected an error", tt.name)
		}
	}
	if _, err := ParseConfig([]byte("[log]\nlevel = \"loud\"\n")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("bad level: got %v; expected ErrInvalidConfig", err)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resin.toml")
	if err := os.WriteFile(path, []byte("[testbed]\nframes = 12\nsatellites = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Testbed.Frames != 12 || cfg.Testbed.Satellites != 2 {
		t.Errorf("testbed=%+v; expected frames 12 and satellites 2", cfg.Testbed)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.toml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadConfig(missing)=%v; expected os.ErrNotExist", err)
	}
}

func TestConfigMarshalRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Level = "warn"
	cfg.Hierarchy.InitialCapacity = 512

	data, err := cfg.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	got, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if got != cfg {
		t.Errorf("ParseConfig(Marshal())=%+v; expected %+v", got, cfg)
	}
}

func TestConfigApply(t *testing.T) {
	previous := GetLogLevel()
	defer SetLogLevel(previous)

	cfg := DefaultConfig()
	cfg.Log.Level = "error"
	if err := cfg.Apply(); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if GetLogLevel() != ErrorLevel {
		t.Errorf("log level %v; expected error", GetLogLevel())
	}
}
