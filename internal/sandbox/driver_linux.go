//go:build linux

package sandbox

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

// childSpec is exactly what the re-exec'd child needs to assemble the
// jail filesystem. It travels to the child as a single environment
// variable rather than as a flat flag list (the teacher's _deny_init
// wrapper's approach): the jail's mount plan has more structure — several
// path lists plus a full environment — than a flag-per-path scheme
// handles cleanly, and since the child is our own re-exec, not a
// user-facing CLI surface, JSON-via-env costs nothing in readability.
type childSpec struct {
	WorktreePath string   `json:"worktree_path"`
	ExtraROBinds []string `json:"extra_ro_binds"`
	ExtraRWBinds []string `json:"extra_rw_binds"`
	HiddenPaths  []string `json:"hidden_paths"`
	Env          []string `json:"env"`
	Entrypoint   []string `json:"entrypoint"`
	Workdir      string   `json:"workdir"`
}

// specEnvVar carries the marshaled childSpec across the re-exec. It's
// stripped from the environment the jailed process finally runs with,
// since it's robojail's own plumbing, not something the operator's
// config asked to pass through.
const specEnvVar = "ROBOJAIL_CHILD_SPEC"

// buildLinux constructs the exec.Cmd described in sandbox.Build's doc
// comment: re-exec self with the hidden child subcommand and new
// namespaces via SysProcAttr.
func buildLinux(cfg Config) (*exec.Cmd, error) {
	self, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("sandbox: resolve own executable: %w", err)
	}

	spec := childSpec{
		WorktreePath: cfg.WorktreePath,
		ExtraROBinds: cfg.ExtraROBinds,
		ExtraRWBinds: cfg.ExtraRWBinds,
		HiddenPaths:  cfg.HiddenPaths,
		Env:          cfg.Env,
		Entrypoint:   cfg.Entrypoint,
		Workdir:      cfg.Workdir,
	}
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("sandbox: marshal child spec: %w", err)
	}

	cmd := exec.Command(self, reexecChildArg)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), specEnvVar+"="+string(specJSON))
	cmd.SysProcAttr = sysProcAttr(cfg)

	return cmd, nil
}

// sysProcAttr builds the clone flags and UID/GID mappings for the
// re-exec'd child. Go's exec machinery performs the uid_map /
// setgroups=deny / gid_map writes, in that exact order, as part of
// honoring UidMappings/GidMappings on a CLONE_NEWUSER child — the same
// ordering the namespace(7) man page requires, just driven by the
// runtime instead of by our own code.
func sysProcAttr(cfg Config) *syscall.SysProcAttr {
	flags := syscall.CLONE_NEWUSER | syscall.CLONE_NEWNS | syscall.CLONE_NEWIPC | syscall.CLONE_NEWUTS
	if !cfg.NetworkEnabled {
		flags |= syscall.CLONE_NEWNET
	}

	uid, gid := os.Getuid(), os.Getgid()
	return &syscall.SysProcAttr{
		Cloneflags: uintptr(flags),
		UidMappings: []syscall.SysProcIDMap{
			{ContainerID: 0, HostID: uid, Size: 1},
		},
		GidMappings: []syscall.SysProcIDMap{
			{ContainerID: 0, HostID: gid, Size: 1},
		},
		GidMappingsEnableSetgroups: false,
	}
}
