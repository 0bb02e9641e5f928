package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix is the default environment variable prefix.
const EnvPrefix = "AGENTCORE_"

// autoSearchNames are the well-known file names probed by LoadAuto, in
// precedence order.
var autoSearchNames = []string{
	"agentcore.yaml",
	"agentcore.yml",
	"agentcore.json",
	".agentcore.yaml",
	".agentcore.yml",
	".agentcore.json",
}

// FromFile loads configuration from a file, auto-detecting format by
// extension. Supported extensions: .yaml, .yml, .json. Fields absent from
// the file keep their Default() values.
func FromFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return FromYAML(data)
	case ".json":
		return FromJSON(data)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %s", ext)
	}
}

// FromYAML parses YAML data into a Config over Default().
func FromYAML(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// FromJSON parses JSON data into a Config over Default().
func FromJSON(data []byte) (Config, error) {
	cfg := Default()
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overlays environment variables with the given prefix onto cfg.
// Variable names map to upper-cased field keys: AGENTCORE_AGENT_NAME sets
// agent_name, AGENTCORE_MAX_HISTORY sets max_history, and so on.
// Malformed numeric or boolean values are an error.
func ApplyEnv(cfg Config, prefix string) (Config, error) {
	if v, ok := os.LookupEnv(prefix + "AGENT_NAME"); ok {
		cfg.AgentName = v
	}
	if v, ok := os.LookupEnv(prefix + "AGENT_VERSION"); ok {
		cfg.AgentVersion = v
	}
	if v, ok := os.LookupEnv(prefix + "FRAMEWORK"); ok {
		cfg.Framework = v
	}
	if v, ok := os.LookupEnv(prefix + "MODEL"); ok {
		cfg.Model = v
	}
	if v, ok := os.LookupEnv(prefix + "MAX_HISTORY"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sMAX_HISTORY: %w", prefix, err)
		}
		cfg.MaxHistory = n
	}
	if v, ok := os.LookupEnv(prefix + "TELEMETRY_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sTELEMETRY_ENABLED: %w", prefix, err)
		}
		cfg.TelemetryEnabled = b
	}
	if v, ok := os.LookupEnv(prefix + "COST_TRACKING_ENABLED"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%sCOST_TRACKING_ENABLED: %w", prefix, err)
		}
		cfg.CostTrackingEnabled = b
	}
	return cfg, nil
}

// LoadAuto discovers and loads configuration. It probes dir (the current
// directory when empty) for the well-known file names, falls back to
// Default() when none exists, then overlays environment variables.
func LoadAuto(dir string) (Config, error) {
	if dir == "" {
		dir = "."
	}

	cfg := Default()
	for _, name := range autoSearchNames {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		loaded, err := FromFile(candidate)
		if err != nil {
			slog.Warn("skipping unreadable config file", "path", candidate, "error", err)
			continue
		}
		slog.Debug("auto-loaded config", "path", candidate)
		cfg = loaded
		break
	}

	cfg, err := ApplyEnv(cfg, EnvPrefix)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
