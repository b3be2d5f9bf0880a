package client

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the persisted client configuration.
type Config struct {
	APIBase string `yaml:"api_base"`
}

// DefaultConfig points at a local backend.
func DefaultConfig() Config {
	return Config{APIBase: DefaultBaseURL}
}

// LoadConfig reads the config file, if present, then applies the API_BASE
// environment override. A missing file is not an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, err
			}
		}
	}

	if base := strings.TrimSpace(os.Getenv("API_BASE")); base != "" {
		cfg.APIBase = base
	}
	if cfg.APIBase == "" {
		cfg.APIBase = DefaultBaseURL
	}
	return cfg, nil
}

// SaveConfig writes the config file, creating parent directories.
func SaveConfig(cfg Config, path string) error {
	if path == "" {
		return errors.New("no path provided for config")
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DefaultConfigPath is the per-user config location.
func DefaultConfigPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, "univia", "config.yml")
}
