// Package config loads robojail's per-user TOML configuration and
// resolves the three directories (config, data, state) the rest of the
// repo stores things under.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/ehrlich-b/robojail/internal/rjerror"
)

// Config holds the operator-tunable settings for every jail created on
// this machine. Fields mirror the keys recognized in config.toml.
type Config struct {
	DefaultShell   string   `toml:"default_shell"`
	NetworkEnabled bool     `toml:"network_enabled"`
	ExtraROBinds   []string `toml:"extra_ro_binds"`
	ExtraRWBinds   []string `toml:"extra_rw_binds"`
	HiddenPaths    []string `toml:"hidden_paths"`
	EnvPassthrough []string `toml:"env_passthrough"`
}

// Default returns the built-in configuration used when no config.toml
// exists yet.
func Default() Config {
	return Config{
		DefaultShell:   "/bin/bash",
		NetworkEnabled: true,
		ExtraROBinds:   nil,
		ExtraRWBinds:   nil,
		HiddenPaths: []string{
			".ssh",
			".gnupg",
			".aws",
			".config/gcloud",
			".kube",
			".docker",
			".npmrc",
			".pypirc",
			".netrc",
		},
		EnvPassthrough: []string{"TERM", "LANG", "LC_ALL", "COLORTERM"},
	}
}

// Load reads config.toml from path. A missing file is not an error: it
// yields the defaults, matching the Load-never-fails-on-absence behavior
// every "pick a config up if it's there" tool in this corpus follows.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Config{}, rjerror.Wrap(rjerror.ErrConfig, "parsing %s: %v", path, err)
	}
	return cfg, nil
}
