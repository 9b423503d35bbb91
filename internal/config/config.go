// Package config loads the optional YAML run configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds run settings that are not part of the fixed extraction
// contract. CLI flags take precedence over file values.
type Config struct {
	// Languages overrides the negotiated recognition language set.
	Languages []string `yaml:"languages"`

	// StrokeColor is the debug overlay outline color as "#RRGGBB".
	StrokeColor string `yaml:"stroke_color"`

	// ContinueOnError makes batch runs record failures and keep going
	// instead of aborting at the first failing file.
	ContinueOnError bool `yaml:"continue_on_error"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{}
}

// Load reads a YAML configuration from path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	return &cfg, nil
}
