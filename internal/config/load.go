package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML configuration document, applies defaults, and
// validates the result.
func Parse(data []byte) (*Config, error) {
	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.StringToTimeDurationHookFunc(),
		Result:     &cfg,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build config decoder: %w", err)
	}
	if err := decoder.Decode(rawConfig); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	// The critical addon default applies only when the key is absent. An
	// explicitly empty list means no addon is critical.
	if !keyPresent(rawConfig, "addons", "critical") {
		cfg.Addons.Critical = append([]string(nil), DefaultCriticalAddons...)
	}

	// Collection phases default to on, so a false is meaningful only when
	// the key was written out.
	if !keyPresent(rawConfig, "assessment", "include_nodegroups") {
		cfg.Assessment.IncludeNodegroups = true
	}
	if !keyPresent(rawConfig, "assessment", "include_insights") {
		cfg.Assessment.IncludeInsights = true
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// keyPresent reports whether a nested key path was explicitly set in the
// raw YAML document.
func keyPresent(rawConfig map[string]interface{}, path ...string) bool {
	cur := rawConfig
	for i, k := range path {
		if i == len(path)-1 {
			_, ok := cur[k]
			return ok
		}
		next, ok := cur[k].(map[string]interface{})
		if !ok {
			return false
		}
		cur = next
	}
	return false
}
