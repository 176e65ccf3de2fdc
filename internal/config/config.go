// Package config loads and validates the tap's settings file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Settings is the typed view of the tap configuration. Every field is
// optional; an empty config discovers public datasets across all of Socrata.
type Settings struct {
	Domains               []string `mapstructure:"domains"`
	APIKeyID              string   `mapstructure:"api_key_id"`
	APIKeySecret          string   `mapstructure:"api_key_secret"`
	AppToken              string   `mapstructure:"app_token"`
	SecretToken           string   `mapstructure:"secret_token"`
	UserAgent             string   `mapstructure:"user_agent"`
	PageLimit             int      `mapstructure:"page_limit"`
	RequestTimeoutSeconds int      `mapstructure:"request_timeout_seconds"`
	StateBackend          string   `mapstructure:"state_backend"`
	MetricsAddr           string   `mapstructure:"metrics_addr"`
}

func defaults() Settings {
	return Settings{
		PageLimit:             50000,
		RequestTimeoutSeconds: 120,
	}
}

// LoadRaw reads a settings file into an untyped map. YAML is accepted next
// to JSON so configs can live in meltano-style project files.
func LoadRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	raw := map[string]any{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse YAML config %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse JSON config %s: %w", path, err)
		}
	}

	return raw, nil
}

// Load reads, validates and decodes a settings file.
func Load(path string) (Settings, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return Settings{}, err
	}
	return Parse(raw)
}

// Parse validates a raw settings map against the schema and decodes it.
func Parse(raw map[string]any) (Settings, error) {
	normalized, err := normalize(raw)
	if err != nil {
		return Settings{}, err
	}

	if err := SettingsSchema().VisitJSON(normalized, openapi3.MultiErrors()); err != nil {
		return Settings{}, fmt.Errorf("invalid config: %w", err)
	}

	settings := defaults()
	if err := mapstructure.Decode(normalized, &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to decode config: %w", err)
	}

	return settings, nil
}

// normalize round-trips the map through JSON so YAML scalar types line up
// with what the schema validator expects.
func normalize(raw map[string]any) (map[string]any, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("config is not JSON-representable: %w", err)
	}
	var normalized map[string]any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return nil, err
	}
	if normalized == nil {
		normalized = map[string]any{}
	}
	return normalized, nil
}

// Redacted returns the settings as a map with secret values masked, safe for
// logging and the `about` command.
func (s Settings) Redacted() map[string]any {
	raw := map[string]any{}
	data, _ := json.Marshal(map[string]any{
		"domains":                 s.Domains,
		"api_key_id":              s.APIKeyID,
		"api_key_secret":          s.APIKeySecret,
		"app_token":               s.AppToken,
		"secret_token":            s.SecretToken,
		"user_agent":              s.UserAgent,
		"page_limit":              s.PageLimit,
		"request_timeout_seconds": s.RequestTimeoutSeconds,
		"state_backend":           s.StateBackend,
		"metrics_addr":            s.MetricsAddr,
	})
	_ = json.Unmarshal(data, &raw)

	for _, name := range SecretSettings() {
		if v, ok := raw[name].(string); ok && v != "" {
			raw[name] = "****"
		}
	}
	return raw
}
