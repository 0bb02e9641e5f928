// Package config loads and validates agent runtime configuration from YAML
// or JSON files and environment variables.
package config

import (
	"errors"
	"fmt"
)

// Config is the validated runtime configuration for an agentcore-powered
// agent. Zero values are replaced by Default() in the loaders.
type Config struct {
	AgentName           string         `yaml:"agent_name" json:"agent_name"`
	AgentVersion        string         `yaml:"agent_version" json:"agent_version"`
	Framework           string         `yaml:"framework" json:"framework"`
	Model               string         `yaml:"model" json:"model"`
	MaxHistory          int            `yaml:"max_history" json:"max_history"`
	TelemetryEnabled    bool           `yaml:"telemetry_enabled" json:"telemetry_enabled"`
	CostTrackingEnabled bool           `yaml:"cost_tracking_enabled" json:"cost_tracking_enabled"`
	CustomSettings      map[string]any `yaml:"custom_settings" json:"custom_settings"`
}

// Default returns the baseline configuration used when no file or
// environment config is present.
func Default() Config {
	return Config{
		AgentName:           "unnamed-agent",
		AgentVersion:        "0.1.0",
		Framework:           "custom",
		Model:               "claude-sonnet-4-5",
		MaxHistory:          1000,
		TelemetryEnabled:    true,
		CostTrackingEnabled: true,
		CustomSettings:      map[string]any{},
	}
}

// ErrInvalidConfig is wrapped by all Validate failures.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the configuration for structural problems.
func (c Config) Validate() error {
	if c.AgentName == "" {
		return fmt.Errorf("%w: agent_name must not be empty", ErrInvalidConfig)
	}
	if c.AgentVersion == "" {
		return fmt.Errorf("%w: agent_version must not be empty", ErrInvalidConfig)
	}
	if c.MaxHistory < 0 {
		return fmt.Errorf("%w: max_history must be non-negative, got %d", ErrInvalidConfig, c.MaxHistory)
	}
	return nil
}
