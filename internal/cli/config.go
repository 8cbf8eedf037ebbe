package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/mcoot/scorekeeper/internal/model"
)

// Config holds CLI configuration
type Config struct {
	BackendURL     string
	CredentialFile string
	Output         string
	Timeout        time.Duration
	Verbose        bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		BackendURL:     getEnvOrDefault("SCOREKEEPER_BACKEND_URL", "http://localhost:3000"),
		CredentialFile: getEnvOrDefault("SCOREKEEPER_CREDENTIAL_FILE", defaultCredentialFile()),
		Output:         "text",
		Timeout:        30 * time.Second,
		Verbose:        false,
	}
}

// LoadCredential reads the stored credential. A missing file means the
// user is signed out and returns nil.
func (c *Config) LoadCredential() (*model.Credential, error) {
	data, err := os.ReadFile(c.CredentialFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil // No credential file is fine
		}
		return nil, err
	}

	var cred model.Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		return nil, fmt.Errorf("reading %s: %w", c.CredentialFile, err)
	}
	return &cred, nil
}

// SaveCredential writes the credential to the credential file
func (c *Config) SaveCredential(cred *model.Credential) error {
	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return err
	}

	dir := filepath.Dir(c.CredentialFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.CredentialFile, data, 0600)
}

// DeleteCredential removes the credential file; a missing file is not an error
func (c *Config) DeleteCredential() error {
	if err := os.Remove(c.CredentialFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func defaultCredentialFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".scorekeeper", "credential.json")
	}
	return filepath.Join(home, ".scorekeeper", "credential.json")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
