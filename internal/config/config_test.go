package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := Default()
	if cfg.DefaultShell != "/bin/bash" {
		t.Errorf("DefaultShell = %q, want /bin/bash", cfg.DefaultShell)
	}
	if !cfg.NetworkEnabled {
		t.Error("NetworkEnabled should default to true")
	}
	found := false
	for _, p := range cfg.HiddenPaths {
		if p == ".ssh" {
			found = true
		}
	}
	if !found {
		t.Error("HiddenPaths should default to include .ssh")
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultShell != "/bin/bash" {
		t.Errorf("expected default shell, got %q", cfg.DefaultShell)
	}
}

func TestLoadParsesTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	contents := `
default_shell = "/bin/zsh"
network_enabled = false
hidden_paths = [".ssh", ".gnupg"]
env_passthrough = ["TERM"]
`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DefaultShell != "/bin/zsh" {
		t.Errorf("DefaultShell = %q, want /bin/zsh", cfg.DefaultShell)
	}
	if cfg.NetworkEnabled {
		t.Error("NetworkEnabled should be false")
	}
	if len(cfg.HiddenPaths) != 2 {
		t.Errorf("HiddenPaths = %v, want 2 entries", cfg.HiddenPaths)
	}
}

func TestLoadRejectsMalformedTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("this is not = [valid toml"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error parsing malformed TOML")
	}
}
