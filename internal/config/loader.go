package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// LoadFile decodes a YAML, TOML or JSON file onto the defaults, applies
// environment overrides and validates the result. A missing file is not an
// error: the defaults and environment are used.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		cfg.ApplyEnv()
		return cfg, cfg.Validate()
	case err != nil:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return Config{}, fmt.Errorf("decode TOML: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode YAML: %w", err)
		}
	case ".json":
		if err := decodeJSON(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode JSON: %w", err)
		}
	default:
		return Config{}, fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}

	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validation failed: %w", err)
	}
	return cfg, nil
}

// decodeJSON handles predict_timeout separately because encoding/json only
// reads durations as integer nanoseconds.
func decodeJSON(data []byte, cfg *Config) error {
	if err := json.Unmarshal(data, cfg); err != nil {
		return err
	}
	var extra struct {
		PredictTimeout string `json:"predict_timeout"`
	}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	if extra.PredictTimeout != "" {
		d, err := time.ParseDuration(extra.PredictTimeout)
		if err != nil {
			return fmt.Errorf("predict_timeout: %w", err)
		}
		cfg.PredictTimeout = d
	}
	return nil
}
