// Package config handles the client's XDG configuration directory and
// file paths.
package config

import (
	"os"
	"path/filepath"
)

const (
	// AppName is the application directory name.
	AppName = "minitask"

	// SessionFile holds the stored credential and account descriptor.
	SessionFile = "session.json"

	// DefaultServerURL is used when neither the flag nor the
	// environment names a server.
	DefaultServerURL = "http://localhost:8080"

	// ServerEnvVar overrides the default server URL.
	ServerEnvVar = "MINITASK_SERVER"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// ServerURL is the base URL of the task server.
	ServerURL string

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a Config. An empty configDir falls back to
// XDG_CONFIG_HOME/minitask or $HOME/.config/minitask; an empty
// serverURL falls back to $MINITASK_SERVER, then DefaultServerURL.
func New(configDir, serverURL string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	url := serverURL
	if url == "" {
		url = os.Getenv(ServerEnvVar)
	}
	if url == "" {
		url = DefaultServerURL
	}
	return &Config{Dir: dir, ServerURL: url}, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasSession checks if a session file exists.
func (c *Config) HasSession() bool {
	_, err := os.Stat(c.SessionPath())
	return err == nil
}
