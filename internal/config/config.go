// Package config loads mull's optional YAML configuration file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings mull reads from its config file. Flags
// and environment variables override these in main.
type Config struct {
	Socket string `yaml:"socket"`
	DB     string `yaml:"db"`
	TickMS int    `yaml:"tick_ms"`
	Theme  Colors `yaml:"theme"`
}

// Colors are optional hex overrides for the built-in palette. Empty
// values keep the defaults.
type Colors struct {
	Accent string `yaml:"accent"`
	Dim    string `yaml:"dim"`
	Timer  string `yaml:"timer"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{TickMS: 100}
}

// Load reads a config file. A missing file is not an error and yields
// the defaults; a file that exists but does not parse is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if cfg.TickMS == 0 {
		cfg.TickMS = Default().TickMS
	}
	return cfg, nil
}

// TickPeriod returns the repaint period, clamped to a sane range so a
// typo can neither spin the CPU nor freeze the readout.
func (c Config) TickPeriod() time.Duration {
	d := time.Duration(c.TickMS) * time.Millisecond
	if d < 50*time.Millisecond {
		return 50 * time.Millisecond
	}
	if d > time.Second {
		return time.Second
	}
	return d
}
