// Package config provides YAML-based configuration loading with environment
// variable expansion and overrides.
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Load reads a YAML file into target, expanding ${VAR} references, then
// applies `env` struct tag overrides and finally validates the result.
// Fields absent from both the file and the environment keep the values
// target already holds.
func Load[T any](filename string, target *T) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}

	if err := env.Parse(target); err != nil {
		return fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

// LoadWithDefaults loads filename, or defaultFile when filename does not
// exist. It returns the path that was actually loaded.
func LoadWithDefaults[T any](filename, defaultFile string, target *T) (string, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		if defaultFile == "" || defaultFile == filename {
			return "", fmt.Errorf("config file not found: %s", filename)
		}
		return defaultFile, Load(defaultFile, target)
	}
	return filename, Load(filename, target)
}
