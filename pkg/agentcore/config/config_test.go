package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentcore-dev/agentcore/pkg/agentcore/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "unnamed-agent", cfg.AgentName)
	assert.Equal(t, "0.1.0", cfg.AgentVersion)
	assert.Equal(t, 1000, cfg.MaxHistory)
	assert.True(t, cfg.TelemetryEnabled)
	assert.True(t, cfg.CostTrackingEnabled)
	require.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cfg := config.Default()
	cfg.AgentName = ""
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)

	cfg = config.Default()
	cfg.MaxHistory = -1
	require.ErrorIs(t, cfg.Validate(), config.ErrInvalidConfig)
}

func TestFromYAML(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
agent_name: research-bot
model: gpt-4o
max_history: 50
telemetry_enabled: false
custom_settings:
  region: eu-west-1
`))
	require.NoError(t, err)

	assert.Equal(t, "research-bot", cfg.AgentName)
	assert.Equal(t, "gpt-4o", cfg.Model)
	assert.Equal(t, 50, cfg.MaxHistory)
	assert.False(t, cfg.TelemetryEnabled)
	// Unset fields keep their defaults.
	assert.Equal(t, "0.1.0", cfg.AgentVersion)
	assert.True(t, cfg.CostTrackingEnabled)
	assert.Equal(t, "eu-west-1", cfg.CustomSettings["region"])
}

func TestFromYAMLInvalid(t *testing.T) {
	_, err := config.FromYAML([]byte("agent_name: [not, a, string"))
	require.Error(t, err)
}

func TestFromJSON(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"agent_name":"bot","framework":"crewai"}`))
	require.NoError(t, err)
	assert.Equal(t, "bot", cfg.AgentName)
	assert.Equal(t, "crewai", cfg.Framework)
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "agent.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("agent_name: from-yaml"), 0o644))
	cfg, err := config.FromFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, "from-yaml", cfg.AgentName)

	jsonPath := filepath.Join(dir, "agent.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"agent_name":"from-json"}`), 0o644))
	cfg, err = config.FromFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, "from-json", cfg.AgentName)

	_, err = config.FromFile(filepath.Join(dir, "agent.toml"))
	require.Error(t, err)

	_, err = config.FromFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("AGENTCORE_AGENT_NAME", "env-bot")
	t.Setenv("AGENTCORE_MAX_HISTORY", "250")
	t.Setenv("AGENTCORE_TELEMETRY_ENABLED", "false")

	cfg, err := config.ApplyEnv(config.Default(), config.EnvPrefix)
	require.NoError(t, err)
	assert.Equal(t, "env-bot", cfg.AgentName)
	assert.Equal(t, 250, cfg.MaxHistory)
	assert.False(t, cfg.TelemetryEnabled)
	// Untouched fields survive the overlay.
	assert.Equal(t, "custom", cfg.Framework)
}

func TestApplyEnvMalformed(t *testing.T) {
	t.Setenv("AGENTCORE_MAX_HISTORY", "many")
	_, err := config.ApplyEnv(config.Default(), config.EnvPrefix)
	require.Error(t, err)
}

func TestLoadAutoDiscoversFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "agentcore.yaml"),
		[]byte("agent_name: discovered"), 0o644))

	cfg, err := config.LoadAuto(dir)
	require.NoError(t, err)
	assert.Equal(t, "discovered", cfg.AgentName)
}

func TestLoadAutoFallsBackToDefaults(t *testing.T) {
	cfg, err := config.LoadAuto(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "unnamed-agent", cfg.AgentName)
}

func TestLoadAutoEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(
		filepath.Join(dir, "agentcore.yaml"),
		[]byte("agent_name: from-file\nmodel: gpt-4o"), 0o644))
	t.Setenv("AGENTCORE_AGENT_NAME", "from-env")

	cfg, err := config.LoadAuto(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AgentName)
	assert.Equal(t, "gpt-4o", cfg.Model)
}
