package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/tap-socrata/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad_JSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"domains": ["data.cityofchicago.org"],
		"api_key_id": "key-id",
		"api_key_secret": "key-secret",
		"app_token": "token",
		"page_limit": 1000
	}`)

	settings, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"data.cityofchicago.org"}, settings.Domains)
	assert.Equal(t, "key-id", settings.APIKeyID)
	assert.Equal(t, 1000, settings.PageLimit)
	assert.Equal(t, 120, settings.RequestTimeoutSeconds, "default applies")
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", `
domains:
  - data.europa.eu
user_agent: tap-socrata/ci
page_limit: 500
`)

	settings, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"data.europa.eu"}, settings.Domains)
	assert.Equal(t, "tap-socrata/ci", settings.UserAgent)
	assert.Equal(t, 500, settings.PageLimit)
}

func TestLoad_EmptyConfig(t *testing.T) {
	path := writeConfig(t, "config.json", `{}`)

	settings, err := config.Load(path)
	require.NoError(t, err)
	assert.Empty(t, settings.Domains)
	assert.Equal(t, 50000, settings.PageLimit)
}

func TestParse_RejectsWrongTypes(t *testing.T) {
	_, err := config.Parse(map[string]any{"domains": "not-a-list"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")

	_, err = config.Parse(map[string]any{"page_limit": 0})
	assert.Error(t, err, "page_limit below minimum")
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{broken`)
	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestSecretSettings(t *testing.T) {
	secrets := config.SecretSettings()
	assert.ElementsMatch(t, []string{"api_key_id", "api_key_secret", "app_token", "secret_token"}, secrets)
}

func TestRedacted(t *testing.T) {
	settings, err := config.Parse(map[string]any{
		"domains":        []string{"data.example.org"},
		"api_key_secret": "hunter2",
		"user_agent":     "tap-socrata/1.0",
	})
	require.NoError(t, err)

	redacted := settings.Redacted()
	assert.Equal(t, "****", redacted["api_key_secret"])
	assert.Equal(t, "tap-socrata/1.0", redacted["user_agent"])
	assert.Equal(t, "", redacted["app_token"], "empty secrets stay empty, not masked")
}
