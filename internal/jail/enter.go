package jail

import (
	"os"

	"github.com/ehrlich-b/robojail/internal/config"
	"github.com/ehrlich-b/robojail/internal/registry"
)

// Enter drops the caller into name's jail interactively: its configured
// entrypoint if one was set at create time, or cfg.DefaultShell
// otherwise. The returned exit code follows the same 128+signum
// convention as Run.
func Enter(reg *registry.Registry, cfg config.Config, name string) (int, error) {
	rec, err := reg.Get(name)
	if err != nil {
		return -1, err
	}
	if _, statErr := os.Stat(rec.WorktreePath); statErr != nil {
		os.Stderr.WriteString("warning: worktree directory missing at " + rec.WorktreePath + "\n")
	}

	argv := rec.Entrypoint
	if len(argv) == 0 {
		argv = []string{cfg.DefaultShell}
	}

	return Run(reg, cfg, name, argv)
}
