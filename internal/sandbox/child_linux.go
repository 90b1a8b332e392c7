//go:build linux

package sandbox

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/robojail/internal/logger"
)

// ChildMain is the entrypoint cmd/robojail dispatches to when it
// recognizes it was re-exec'd as the hidden sandbox child (see
// sandbox.reexecChildArg). By the time this runs, the new user, mount,
// IPC, UTS, and (usually) network namespaces already exist — clone()
// created them atomically when the parent started this process — so
// there is no unshare() left to call here; ChildMain only has to build
// the filesystem, harden the process, and exec the real target.
//
// It never returns: either the final exec succeeds and this process
// image is gone, or setup fails and it exits with a fixed error code.
func ChildMain() {
	specJSON := os.Getenv(specEnvVar)
	if specJSON == "" {
		fmt.Fprintln(os.Stderr, "robojail: child spec missing, not meant to be invoked directly")
		os.Exit(1)
	}

	var spec childSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		fmt.Fprintln(os.Stderr, "robojail: invalid child spec:", err)
		os.Exit(1)
	}

	logger.Debug("child spec decoded", "worktree", spec.WorktreePath, "entrypoint", spec.Entrypoint)

	if err := unix.Sethostname([]byte("robojail")); err != nil {
		fmt.Fprintln(os.Stderr, "robojail: sethostname failed (continuing):", err)
	}

	if err := assembleRootfs(spec); err != nil {
		logger.Error("sandbox setup failed", "err", err)
		fmt.Fprintln(os.Stderr, "robojail: sandbox setup failed:", err)
		os.Exit(126)
	}
	logger.Info("rootfs assembled", "worktree", spec.WorktreePath)

	if err := applySecurityRestrictions(); err != nil {
		logger.Error("security hardening failed", "err", err)
		fmt.Fprintln(os.Stderr, "robojail: security hardening failed:", err)
		os.Exit(126)
	}
	logger.Info("security restrictions applied")

	workdir := spec.Workdir
	if workdir == "" {
		workdir = "/"
	}
	if err := unix.Chdir(workdir); err != nil {
		fmt.Fprintln(os.Stderr, "robojail: chdir to", workdir, "failed:", err)
		os.Exit(126)
	}

	env := spec.Env
	if env == nil {
		env = []string{}
	}

	target, err := resolveOnPath(spec.Entrypoint[0], env)
	if err != nil {
		fmt.Fprintln(os.Stderr, "robojail:", err)
		os.Exit(127)
	}

	logger.Info("exec", "target", target, "argv", spec.Entrypoint)
	if err := unix.Exec(target, spec.Entrypoint, env); err != nil {
		fmt.Fprintln(os.Stderr, "robojail: exec", target, "failed:", err)
		os.Exit(127)
	}
}

// resolveOnPath mirrors execvp's search behavior, which unix.Exec (a
// raw execve) does not provide: a name containing a slash is used as
// given, otherwise it's searched for in each directory of the jail's
// own PATH variable. This runs after pivot_root, so the search walks
// the assembled jail filesystem rather than the host's.
func resolveOnPath(name string, env []string) (string, error) {
	if strings.Contains(name, "/") {
		return name, nil
	}

	path := envValue(env, "PATH")
	for _, dir := range strings.Split(path, ":") {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}
		if info.Mode()&0111 != 0 {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%q: executable file not found in $PATH", name)
}

func envValue(env []string, key string) string {
	prefix := key + "="
	for _, kv := range env {
		if strings.HasPrefix(kv, prefix) {
			return kv[len(prefix):]
		}
	}
	return ""
}
