// Package config provides YAML-based configuration loading for herald.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level herald configuration, loaded from herald.yaml.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Bridge   BridgeConfig   `yaml:"bridge"`
	History  HistoryConfig  `yaml:"history"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// BridgeConfig holds connection settings for the messaging bridge sidecar.
type BridgeConfig struct {
	URL             string `yaml:"url"`
	CredentialsDir  string `yaml:"credentials_dir"`
	FetchTimeoutSec int    `yaml:"fetch_timeout_sec"`
}

// HistoryConfig controls broadcast history retention. RetentionDays of zero
// disables the prune job.
type HistoryConfig struct {
	RetentionDays int    `yaml:"retention_days"`
	PruneSchedule string `yaml:"prune_schedule"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a YAML config file from path and returns a validated Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a Config with every default applied, used when no config
// file exists on disk.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// FetchTimeout returns the bridge room-fetch bound as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Bridge.FetchTimeoutSec) * time.Second
}

// applyDefaults fills in derived and default values.
func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/herald.db"
	}
	if c.Bridge.URL == "" {
		c.Bridge.URL = "ws://127.0.0.1:3000/ws"
	}
	if c.Bridge.CredentialsDir == "" {
		c.Bridge.CredentialsDir = "data/auth"
	}
	if c.Bridge.FetchTimeoutSec == 0 {
		c.Bridge.FetchTimeoutSec = 15
	}
	if c.History.PruneSchedule == "" {
		c.History.PruneSchedule = "0 3 * * *"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// validate checks that all required fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port %d is out of range", c.Server.Port))
	}
	if !strings.HasPrefix(c.Bridge.URL, "ws://") && !strings.HasPrefix(c.Bridge.URL, "wss://") {
		errs = append(errs, fmt.Sprintf("bridge.url %q must be a ws:// or wss:// URL", c.Bridge.URL))
	}
	if c.Bridge.FetchTimeoutSec < 0 {
		errs = append(errs, "bridge.fetch_timeout_sec must not be negative")
	}
	if c.History.RetentionDays < 0 {
		errs = append(errs, "history.retention_days must not be negative")
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
