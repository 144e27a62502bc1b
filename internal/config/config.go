// Package config handles loading the monitor configuration.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	dirName        = ".botmon"
	configFileName = "config.yaml"
	logFileName    = "botmon.log"
)

// Config is the root configuration structure.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Client  ClientConfig  `yaml:"client"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	UI      UIConfig      `yaml:"ui,omitempty"`
}

// ServerConfig describes the RTVI endpoint.
type ServerConfig struct {
	URL         string            `yaml:"url"`
	Headers     map[string]string `yaml:"headers,omitempty"`
	DialTimeout time.Duration     `yaml:"dialTimeout,omitempty"`
}

// ClientConfig controls which local tracks the client reports.
type ClientConfig struct {
	EnableMic bool `yaml:"enableMic"`
	EnableCam bool `yaml:"enableCam"`
}

// LoggingConfig contains diagnostic logging settings.
type LoggingConfig struct {
	Level string `yaml:"level,omitempty"` // debug, info, warn, error
	File  string `yaml:"file,omitempty"`
}

// UIConfig contains layout settings for the TUI.
type UIConfig struct {
	LogRatio float64 `yaml:"logRatio,omitempty"` // share of height for the server log pane
}

// Dir returns ~/.botmon.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

// Load reads the config at path. A missing file is not an error: defaults
// are returned instead. An empty path means DefaultPath.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that defaults cannot repair.
func (c *Config) Validate() error {
	u := strings.ToLower(c.Server.URL)
	if !strings.HasPrefix(u, "ws://") && !strings.HasPrefix(u, "wss://") {
		return fmt.Errorf("server.url must start with ws:// or wss://, got %q", c.Server.URL)
	}
	if c.UI.LogRatio <= 0 || c.UI.LogRatio >= 1 {
		return fmt.Errorf("ui.logRatio must be between 0 and 1, got %v", c.UI.LogRatio)
	}
	return nil
}

// Marshal renders the config as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
