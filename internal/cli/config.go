package cli

import (
	"os"
	"path/filepath"
	"strings"
)

// Config holds CLI configuration
type Config struct {
	ServerURL    string
	ConnectionID string
	TokenFile    string
	Output       string
	Verbose      bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:    getEnvOrDefault("CARDDUEL_SERVER", "http://localhost:8080"),
		ConnectionID: os.Getenv("CARDDUEL_CONNECTION"),
		TokenFile:    getEnvOrDefault("CARDDUEL_TOKEN_FILE", defaultTokenFile()),
		Output:       "text",
		Verbose:      false,
	}
}

// LoadConnectionID loads the connection id from file if not already set
func (c *Config) LoadConnectionID() error {
	if c.ConnectionID != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No token file is fine
		}
		return err
	}

	c.ConnectionID = strings.TrimSpace(string(data))
	return nil
}

// SaveConnectionID saves the connection id to the token file
func (c *Config) SaveConnectionID(connID string) error {
	c.ConnectionID = connID

	dir := filepath.Dir(c.TokenFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}

	return os.WriteFile(c.TokenFile, []byte(connID), 0600)
}

// ClearConnectionID removes the stored connection id
func (c *Config) ClearConnectionID() error {
	c.ConnectionID = ""
	if err := os.Remove(c.TokenFile); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func defaultTokenFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".cardduel/connection"
	}
	return filepath.Join(home, ".cardduel", "connection")
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
