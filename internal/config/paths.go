package config

import (
	"os"
	"path/filepath"
)

// appName names the per-user directory robojail's state lives under,
// following the same "bare project name, no vendor prefix" convention the
// Rust original uses with ProjectDirs::from("", "", "robojail").
const appName = "robojail"

// UserConfigDir returns the directory config.toml lives in.
func UserConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", appName), nil
}

// ConfigPath returns the full path to config.toml.
func ConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// DataDir returns the directory jail worktrees live under.
func DataDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "share", appName), nil
}

// StateDir returns the directory jails.json lives in.
func StateDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".local", "state", appName), nil
}

// JailsDir returns the directory individual jail worktrees are created
// under.
func JailsDir() (string, error) {
	dataDir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dataDir, "jails"), nil
}

// StatePath returns the full path to jails.json.
func StatePath() (string, error) {
	dir, err := StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jails.json"), nil
}

// EnsureDirs creates the config, data, jails, and state directories if
// they don't already exist.
func EnsureDirs() error {
	dirs := []func() (string, error){UserConfigDir, DataDir, JailsDir, StateDir}
	for _, f := range dirs {
		dir, err := f()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
