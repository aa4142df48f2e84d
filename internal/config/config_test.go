package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewExplicit(t *testing.T) {
	cfg, err := New("/tmp/conf", "http://example.com:9000")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dir != "/tmp/conf" {
		t.Errorf("dir = %q", cfg.Dir)
	}
	if cfg.ServerURL != "http://example.com:9000" {
		t.Errorf("server = %q", cfg.ServerURL)
	}
	if got := cfg.SessionPath(); got != filepath.Join("/tmp/conf", SessionFile) {
		t.Errorf("session path = %q", got)
	}
}

func TestNewServerFromEnv(t *testing.T) {
	t.Setenv(ServerEnvVar, "http://env-server:7000")
	cfg, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != "http://env-server:7000" {
		t.Errorf("server = %q", cfg.ServerURL)
	}
}

func TestNewServerDefault(t *testing.T) {
	t.Setenv(ServerEnvVar, "")
	cfg, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ServerURL != DefaultServerURL {
		t.Errorf("server = %q", cfg.ServerURL)
	}
}

func TestHasSession(t *testing.T) {
	cfg, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HasSession() {
		t.Error("fresh dir should have no session")
	}
	if err := os.WriteFile(cfg.SessionPath(), []byte("{}"), 0600); err != nil {
		t.Fatal(err)
	}
	if !cfg.HasSession() {
		t.Error("session file should be detected")
	}
}

func TestDefaultConfigDirUsesXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/xdg", AppName) {
		t.Errorf("dir = %q", got)
	}
}
