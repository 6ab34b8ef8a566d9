package bridge

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// credentialsFile holds the opaque session token inside the credentials dir.
const credentialsFile = "creds.json"

type credentials struct {
	Token string `json:"token"`
}

// LoadToken reads the stored session token. A missing file is not an error;
// it just means pairing has never completed on this host.
func LoadToken(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, credentialsFile))
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("bridge: read credentials: %w", err)
	}
	var c credentials
	if err := json.Unmarshal(data, &c); err != nil {
		return "", fmt.Errorf("bridge: parse credentials: %w", err)
	}
	return c.Token, nil
}

// SaveToken persists the session token so restarts skip pairing.
func SaveToken(dir, token string) error {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("bridge: create credentials dir: %w", err)
	}
	data, err := json.Marshal(credentials{Token: token})
	if err != nil {
		return fmt.Errorf("bridge: marshal credentials: %w", err)
	}
	path := filepath.Join(dir, credentialsFile)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("bridge: write credentials: %w", err)
	}
	return nil
}

// Reset deletes the credentials dir, forcing a fresh pairing flow on the
// next connection. This is the only recovery lever for a stuck session.
func Reset(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("bridge: reset credentials: %w", err)
	}
	return nil
}
