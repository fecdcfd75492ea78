// Package config loads the optional tessera.yaml engine configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the optional tessera.yaml configuration.
type Config struct {
	Engine EngineConfig `yaml:"engine"`
	Debug  DebugConfig  `yaml:"debug"`
}

// EngineConfig contains resolution engine settings.
type EngineConfig struct {
	// Reconciliation enables tree reuse across state updates. Defaults to true.
	Reconciliation *bool `yaml:"reconciliation,omitempty"`
	// Interruption allows background passes to be interrupted by
	// foreground requests. Defaults to true.
	Interruption *bool `yaml:"interruption,omitempty"`
}

// DebugConfig contains inspection server settings.
type DebugConfig struct {
	// Addr is the listen address for the debug server; empty disables it.
	Addr string `yaml:"addr,omitempty"`
	// PerfTracing enables perf-event spans.
	PerfTracing bool `yaml:"perf_tracing,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{}
}

// LoadOptional reads tessera.yaml from dir if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, "tessera.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read tessera.yaml: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tessera.yaml: %w", err)
	}

	return &cfg, nil
}

// ReconciliationEnabled resolves the reconciliation toggle.
func (c *Config) ReconciliationEnabled() bool {
	if c == nil || c.Engine.Reconciliation == nil {
		return true
	}
	return *c.Engine.Reconciliation
}

// InterruptionEnabled resolves the interruption toggle.
func (c *Config) InterruptionEnabled() bool {
	if c == nil || c.Engine.Interruption == nil {
		return true
	}
	return *c.Engine.Interruption
}
