// Command robojail creates and runs git-worktree-backed sandbox jails:
// isolated Linux namespaces an AI agent (or anything else you don't
// fully trust) can run inside without touching the rest of the host.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ehrlich-b/robojail/internal/config"
	"github.com/ehrlich-b/robojail/internal/logger"
	"github.com/ehrlich-b/robojail/internal/sandbox"
)

func main() {
	// Before Cobra ever parses argv, recognize the hidden re-exec child
	// subcommand sandbox.Build() invokes internally. It is never
	// documented, never shown in --help, and never reached by a normal
	// CLI invocation.
	if len(os.Args) > 1 && os.Args[1] == sandbox.ReexecChildArg {
		logger.Init(os.Getenv("ROBOJAIL_LOG_LEVEL"), os.Getenv("ROBOJAIL_LOG_FILE"))
		sandbox.ChildMain()
		return
	}

	logger.Init(os.Getenv("ROBOJAIL_LOG_LEVEL"), os.Getenv("ROBOJAIL_LOG_FILE"))

	root := &cobra.Command{
		Use:   "robojail",
		Short: "Sandbox git worktrees for untrusted agents",
		Long:  "Creates per-jail git worktrees and runs commands inside them under an isolated Linux namespace sandbox.",
	}

	root.AddCommand(
		createCmd(),
		enterCmd(),
		runCmd(),
		listCmd(),
		destroyCmd(),
		statusCmd(),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads config.toml, falling back to defaults. Every
// subcommand needs this, so it's shared here rather than repeated.
func loadConfig() (config.Config, error) {
	path, err := config.ConfigPath()
	if err != nil {
		return config.Config{}, fmt.Errorf("resolve config path: %w", err)
	}
	return config.Load(path)
}
