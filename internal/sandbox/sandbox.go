// Package sandbox builds the per-jail Linux namespace sandbox: a user
// namespace mapping the caller to root inside the jail, a mount
// namespace whose root is a pivot_root'd assembly of the worktree plus a
// read-only system overlay, and (optionally) an isolated network
// namespace. It never runs as, and never requires, root on the host.
package sandbox

import (
	"fmt"
	"os/exec"

	"github.com/ehrlich-b/robojail/internal/logger"
	"github.com/ehrlich-b/robojail/internal/rjerror"
)

// ReexecChildArg is the argv[1] cmd/robojail checks for at startup,
// before Cobra ever sees the arguments, to recognize that this process
// is the re-exec'd sandbox child rather than a normal CLI invocation.
const ReexecChildArg = "__robojail_child__"

// reexecChildArg is the same value under the name the Linux build files
// use internally.
const reexecChildArg = ReexecChildArg

// Mount describes one extra bind mount layered into the jail filesystem.
type Mount struct {
	Source   string
	Target   string
	ReadOnly bool
}

// Config describes everything needed to assemble and run one jail.
type Config struct {
	// WorktreePath becomes the jail's "/". Must already exist.
	WorktreePath string
	// NetworkEnabled controls whether the jail shares the host's network
	// namespace (true) or gets its own isolated, loopback-only one (false).
	NetworkEnabled bool
	// ExtraROBinds/ExtraRWBinds are additional host paths bind-mounted
	// into the jail at the same path they have on the host.
	ExtraROBinds []string
	ExtraRWBinds []string
	// HiddenPaths are paths, relative to /home/user, masked with an
	// empty tmpfs overmount so the jailed process can't read them even
	// though they exist in the underlying worktree/home.
	HiddenPaths []string
	// Env is the full environment the jailed process runs with.
	// Building this (HOME/USER/PATH/ROBOJAIL plus the operator's
	// passthrough vars) is the caller's job.
	Env []string
	// Entrypoint is the resolved argv of the command to run. Entrypoint[0]
	// must be an absolute path.
	Entrypoint []string
	// Workdir is the working directory inside the jail ("/" if empty).
	Workdir string
}

// EnforcementError is returned when the host cannot give us the
// namespaces this sandbox needs — unlike a generic container runtime,
// robojail never silently degrades to an unsandboxed exec.
type EnforcementError struct {
	Reason   string
	Platform string
}

func (e *EnforcementError) Error() string {
	msg := "cannot create sandbox: " + e.Reason
	if e.Platform != "" {
		msg += ". " + e.Platform
	}
	return msg
}

func (e *EnforcementError) Unwrap() error { return rjerror.ErrNamespacesUnavailable }

// Build returns an *exec.Cmd that, once Start()ed, creates a new set of
// Linux namespaces (user/mount/ipc/uts, and network unless
// cfg.NetworkEnabled) and re-execs this binary into a hidden child
// entrypoint, which assembles the jail filesystem and finally execs
// cfg.Entrypoint.
//
// A Go process can't safely unshare() namespaces mid-run — the runtime
// is multi-threaded and unshare only affects the calling OS thread — so
// the only safe way to create them is at process-creation time via
// exec.Cmd.SysProcAttr.Cloneflags. That means the "enter the namespaces
// and build the filesystem" logic has to live in a re-exec'd copy of
// this same binary rather than inline in the caller; ChildMain is that
// entrypoint. The returned Cmd has Stdin/Stdout/Stderr already wired to
// the parent's, so interactive use (robojail enter) needs no separate
// PTY plumbing: the jailed process inherits the operator's controlling
// terminal directly.
func Build(cfg Config) (*exec.Cmd, error) {
	if len(cfg.Entrypoint) == 0 {
		return nil, fmt.Errorf("sandbox: empty entrypoint")
	}
	if !hasNamespaceCapability() {
		return nil, &EnforcementError{
			Reason:   "no CAP_SYS_ADMIN and unprivileged user namespaces are disabled",
			Platform: "check /proc/sys/kernel/unprivileged_userns_clone, or run as root",
		}
	}
	logger.Info("building sandbox", "worktree", cfg.WorktreePath, "network_enabled", cfg.NetworkEnabled)
	return buildLinux(cfg)
}
