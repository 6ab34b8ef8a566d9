package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("{}"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Path != "data/herald.db" {
		t.Errorf("Database.Path = %q", cfg.Database.Path)
	}
	if cfg.Bridge.URL != "ws://127.0.0.1:3000/ws" {
		t.Errorf("Bridge.URL = %q", cfg.Bridge.URL)
	}
	if cfg.Bridge.CredentialsDir != "data/auth" {
		t.Errorf("Bridge.CredentialsDir = %q", cfg.Bridge.CredentialsDir)
	}
	if cfg.Bridge.FetchTimeoutSec != 15 {
		t.Errorf("Bridge.FetchTimeoutSec = %d, want 15", cfg.Bridge.FetchTimeoutSec)
	}
	if cfg.History.PruneSchedule != "0 3 * * *" {
		t.Errorf("History.PruneSchedule = %q", cfg.History.PruneSchedule)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestParse_Overrides(t *testing.T) {
	data := []byte(`
server:
  port: 9090
database:
  path: /tmp/test.db
bridge:
  url: wss://bridge.internal/ws
  credentials_dir: /tmp/auth
  fetch_timeout_sec: 30
history:
  retention_days: 90
log:
  level: debug
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Bridge.URL != "wss://bridge.internal/ws" {
		t.Errorf("Bridge.URL = %q", cfg.Bridge.URL)
	}
	if cfg.History.RetentionDays != 90 {
		t.Errorf("History.RetentionDays = %d, want 90", cfg.History.RetentionDays)
	}
	if got := cfg.FetchTimeout(); got != 30*time.Second {
		t.Errorf("FetchTimeout() = %v, want 30s", got)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad bridge url scheme", "bridge:\n  url: http://not-a-socket"},
		{"port out of range", "server:\n  port: 70000"},
		{"negative retention", "history:\n  retention_days: -1"},
		{"malformed yaml", ":\n :"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.data)); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load error = %v, want os.ErrNotExist", err)
	}
}

func TestLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "herald.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("Server.Port = %d, want 7070", cfg.Server.Port)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Server.Port != 8080 || cfg.Bridge.FetchTimeoutSec != 15 {
		t.Errorf("Default() = %+v, defaults not applied", cfg)
	}
}
