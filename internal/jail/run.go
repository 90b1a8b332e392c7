package jail

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/ehrlich-b/robojail/internal/config"
	"github.com/ehrlich-b/robojail/internal/registry"
	"github.com/ehrlich-b/robojail/internal/rjerror"
	"github.com/ehrlich-b/robojail/internal/sandbox"
)

// baseEnv is the fixed, minimal environment every jailed process starts
// with — the host's environment is never inherited.
var baseEnv = []string{
	"HOME=/home/user",
	"USER=user",
	"PATH=/usr/local/bin:/usr/bin:/bin:/usr/local/sbin:/usr/sbin:/sbin",
	"ROBOJAIL=1",
}

// buildEnv seeds the fixed jail environment and layers in the
// configured passthrough variables, whose values are captured from this
// (parent) process's own environment before the child ever exists.
func buildEnv(cfg config.Config) []string {
	env := append([]string{}, baseEnv...)
	for _, name := range cfg.EnvPassthrough {
		if val, ok := os.LookupEnv(name); ok {
			env = append(env, name+"="+val)
		}
	}
	return env
}

// sandboxConfigFor builds a sandbox.Config for rec, running argv as the
// jailed process. argv overrides rec.Entrypoint when non-empty — used
// by Run for ad hoc commands and by Enter to fall back to a shell.
func sandboxConfigFor(rec *registry.JailRecord, cfg config.Config, argv []string) sandbox.Config {
	return sandbox.Config{
		WorktreePath:   rec.WorktreePath,
		NetworkEnabled: cfg.NetworkEnabled,
		ExtraROBinds:   cfg.ExtraROBinds,
		ExtraRWBinds:   cfg.ExtraRWBinds,
		HiddenPaths:    cfg.HiddenPaths,
		Env:            buildEnv(cfg),
		Entrypoint:     argv,
		Workdir:        "/",
	}
}

// Run executes argv inside name's jail and returns the process's exit
// code (128+signum if it was killed by a signal). It bind-mounts rec's
// configured entrypoint in too, even when argv is an ad hoc command, so
// the jail's usual tool is reachable for the command to shell out to.
func Run(reg *registry.Registry, cfg config.Config, name string, argv []string) (int, error) {
	rec, err := reg.Get(name)
	if err != nil {
		return -1, err
	}
	if _, err := os.Stat(rec.WorktreePath); err != nil {
		return -1, rjerror.Wrap(rjerror.ErrJailNotFound, "%s (worktree missing at %s)", name, rec.WorktreePath)
	}

	sbCfg := sandboxConfigFor(rec, cfg, argv)
	// Bind the jail's configured entrypoint in even when argv is an ad hoc
	// command, so that command can still shell out to it — unless argv
	// already *is* the configured entrypoint, in which case rootfs
	// assembly binds it once on its own.
	if len(rec.Entrypoint) > 0 && (len(argv) == 0 || argv[0] != rec.Entrypoint[0]) {
		sbCfg.ExtraROBinds = append(append([]string{}, sbCfg.ExtraROBinds...), rec.Entrypoint[0])
	}

	cmd, err := sandbox.Build(sbCfg)
	if err != nil {
		return -1, err
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Start(); err != nil {
		return -1, fmt.Errorf("start sandbox: %w", err)
	}
	childPID := cmd.Process.Pid
	_ = reg.SetPID(name, &childPID)
	defer reg.SetPID(name, nil)

	err = cmd.Wait()
	return exitCodeOf(err)
}

// exitCodeOf turns a cmd.Wait() error into a process exit code: the
// child's own status if it exited normally, 128+signum if a signal
// killed it, and -1 for any other (non-process) error.
func exitCodeOf(err error) (int, error) {
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return -1, err
	}
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok {
		if ws.Signaled() {
			return 128 + int(ws.Signal()), nil
		}
		return ws.ExitStatus(), nil
	}
	return exitErr.ExitCode(), nil
}
