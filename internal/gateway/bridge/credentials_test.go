package bridge

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCredentials_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "auth")

	if err := SaveToken(dir, "opaque-session-token"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}
	token, err := LoadToken(dir)
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if token != "opaque-session-token" {
		t.Errorf("token = %q, want %q", token, "opaque-session-token")
	}
}

func TestLoadToken_MissingIsEmpty(t *testing.T) {
	token, err := LoadToken(filepath.Join(t.TempDir(), "never-created"))
	if err != nil {
		t.Fatalf("LoadToken: %v", err)
	}
	if token != "" {
		t.Errorf("token = %q, want empty", token)
	}
}

func TestLoadToken_Corrupt(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, credentialsFile), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadToken(dir); err == nil {
		t.Error("expected error for corrupt credentials file")
	}
}

func TestReset(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "auth")
	if err := SaveToken(dir, "tok"); err != nil {
		t.Fatal(err)
	}
	if err := Reset(dir); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("credentials dir still exists after reset")
	}
	// Resetting again is fine; there is nothing left to remove.
	if err := Reset(dir); err != nil {
		t.Errorf("second Reset: %v", err)
	}
}
