package main

import (
	"fmt"

	"github.com/ehrlich-b/robojail/internal/config"
	"github.com/ehrlich-b/robojail/internal/registry"
)

// openRegistry ensures the per-user directories exist and loads
// jails.json, the single source of truth every subcommand reads and
// writes through.
func openRegistry() (*registry.Registry, error) {
	if err := config.EnsureDirs(); err != nil {
		return nil, fmt.Errorf("create robojail directories: %w", err)
	}
	path, err := config.StatePath()
	if err != nil {
		return nil, fmt.Errorf("resolve state path: %w", err)
	}
	return registry.Load(path)
}
