package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresHostAndKey(t *testing.T) {
	t.Setenv(EnvHost, "")
	t.Setenv(EnvHostLegacy, "")
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvAPIKeyLegacy, "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvHost)

	t.Setenv(EnvHost, "https://platform.example.com")
	_, err = Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), EnvAPIKey)
}

func TestLoadUsesLegacyFallbacks(t *testing.T) {
	t.Setenv(EnvHost, "")
	t.Setenv(EnvAPIKey, "")
	t.Setenv(EnvHostLegacy, "https://legacy.example.com/")
	t.Setenv(EnvAPIKeyLegacy, "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://legacy.example.com", cfg.Host, "trailing slash should be trimmed")
	assert.Equal(t, "legacy-key", cfg.APIKey)
	assert.Equal(t, RestrictedWarn, cfg.RestrictedPolicy)
}

func TestLoadPrefersPrimaryVariables(t *testing.T) {
	t.Setenv(EnvHost, "https://primary.example.com")
	t.Setenv(EnvHostLegacy, "https://legacy.example.com")
	t.Setenv(EnvAPIKey, "primary-key")
	t.Setenv(EnvAPIKeyLegacy, "legacy-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "https://primary.example.com", cfg.Host)
	assert.Equal(t, "primary-key", cfg.APIKey)
}

func TestLoadTuningVariables(t *testing.T) {
	t.Setenv(EnvHost, "https://platform.example.com")
	t.Setenv(EnvAPIKey, "key")
	t.Setenv(EnvDefaultTier, "gpu-v100")
	t.Setenv(EnvRestrictedPolicy, "skip")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "gpu-v100", cfg.DefaultHardwareTier)
	assert.Equal(t, RestrictedSkip, cfg.RestrictedPolicy)
}

func TestLoadRejectsBadRestrictedPolicy(t *testing.T) {
	t.Setenv(EnvHost, "https://platform.example.com")
	t.Setenv(EnvAPIKey, "key")
	t.Setenv(EnvRestrictedPolicy, "explode")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "restricted policy")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		Host:        "https://platform.example.com",
		APIKey:      "key",
		HTTPTimeout: time.Minute,
	}
	assert.NoError(t, cfg.Validate())

	cfg.RestrictedPolicy = "explode"
	assert.Error(t, cfg.Validate())

	cfg.RestrictedPolicy = RestrictedSkip
	cfg.APIKey = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadSettings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "project_settings.md")
	content := `# Test Settings

These defaults are used by the UAT suites.

user_name = "qa-runner"
project_name = "uat-smoke"
# commented = "ignored"
not a settings line
hardware_tier = small
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := LoadSettings(path)
	require.NoError(t, err)
	assert.Equal(t, "qa-runner", settings["user_name"])
	assert.Equal(t, "uat-smoke", settings["project_name"])
	assert.Equal(t, "small", settings["hardware_tier"])
	assert.NotContains(t, settings, "# commented")
}

func TestLoadSettingsMissingFileIsSoftError(t *testing.T) {
	settings, err := LoadSettings(filepath.Join(t.TempDir(), "nope.md"))
	assert.Error(t, err)
	assert.Nil(t, settings)
}
