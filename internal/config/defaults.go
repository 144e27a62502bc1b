package config

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	defaultServerURL   = "ws://localhost:7860/ws"
	defaultDialTimeout = 10 * time.Second
	defaultLogLevel    = "info"
	defaultLogRatio    = 0.5
)

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	cfg := &Config{
		Server: ServerConfig{
			URL:         defaultServerURL,
			DialTimeout: defaultDialTimeout,
		},
		Client: ClientConfig{
			EnableMic: true,
		},
		Logging: LoggingConfig{
			Level: defaultLogLevel,
		},
		UI: UIConfig{
			LogRatio: defaultLogRatio,
		},
	}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	c.Server.URL = strings.TrimSpace(c.Server.URL)
	if c.Server.URL == "" {
		c.Server.URL = defaultServerURL
	}
	if c.Server.DialTimeout <= 0 {
		c.Server.DialTimeout = defaultDialTimeout
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.File == "" {
		if dir, err := Dir(); err == nil {
			c.Logging.File = filepath.Join(dir, logFileName)
		}
	}
	if c.UI.LogRatio == 0 {
		c.UI.LogRatio = defaultLogRatio
	}
}
