package core

import (
	"bytes"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
)

// Config is the engine configuration, read from a TOML file such as:
//
//	[log]
//	level = "debug"
//	report_caller = true
//
//	[hierarchy]
//	initial_capacity = 1024
//	check_cycles = true
//
//	[testbed]
//	frames = 600
//	satellites = 4
type Config struct {
	Log       LogConfig       `toml:"log"`
	Hierarchy HierarchyConfig `toml:"hierarchy"`
	Testbed   TestbedConfig   `toml:"testbed"`
}

type LogConfig struct {
	Level        string `toml:"level"`
	ReportCaller bool   `toml:"report_caller"`
}

// HierarchyConfig tunes a transform hierarchy.
type HierarchyConfig struct {
	// Number of transform slots reserved up front.
	InitialCapacity int `toml:"initial_capacity"`
	// Reject parenting a transform to itself or to one of its descendants.
	// When false, cyclic parenting is a caller precondition and is not detected.
	CheckCycles bool `toml:"check_cycles"`
}

type TestbedConfig struct {
	Frames     int `toml:"frames"`
	Satellites int `toml:"satellites"`
}

func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:        "info",
			ReportCaller: true,
		},
		Hierarchy: HierarchyConfig{
			InitialCapacity: 64,
			CheckCycles:     true,
		},
		Testbed: TestbedConfig{
			Frames:     240,
			Satellites: 3,
		},
	}
}

// ParseConfig decodes data on top of DefaultConfig. Unknown keys are rejected.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, errors.WithMessagef(err, "config %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return errors.Wrapf(ErrInvalidConfig, "log.level %q", c.Log.Level)
	}
	if c.Hierarchy.InitialCapacity < 0 {
		return errors.Wrapf(ErrInvalidConfig, "hierarchy.initial_capacity must not be negative, got %d", c.Hierarchy.InitialCapacity)
	}
	if c.Testbed.Frames < 0 || c.Testbed.Satellites < 0 {
		return errors.Wrap(ErrInvalidConfig, "testbed.frames and testbed.satellites must not be negative")
	}
	return nil
}

// Apply pushes the logging section into the engine logger.
func (c Config) Apply() error {
	if err := SetLogLevelName(c.Log.Level); err != nil {
		return err
	}
	SetLogReportCaller(c.Log.ReportCaller)
	return nil
}

// Marshal encodes the configuration back to TOML.
func (c Config) Marshal() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(err, "encode config")
	}
	return data, nil
}
