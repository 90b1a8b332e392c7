//go:build !linux

package sandbox

import (
	"os/exec"
	"runtime"
)

// robojail's sandbox relies on Linux-specific namespace primitives
// (CLONE_NEWUSER/NEWNS/NEWIPC/NEWUTS/NEWNET, pivot_root, seccomp). There
// is no macOS or other equivalent wired up — unlike the teacher, which
// falls back to Apple Containers on darwin, robojail has no such
// fallback to reach for, so this build reports the gap plainly instead
// of silently running unsandboxed.
func hasNamespaceCapability() bool { return false }

func buildLinux(cfg Config) (*exec.Cmd, error) {
	panic("buildLinux unreachable on " + runtime.GOOS)
}

// ChildMain only ever runs inside the Linux re-exec; on every other
// platform hasNamespaceCapability already refused to produce a Cmd that
// could invoke it, so reaching here means something invoked the hidden
// subcommand directly.
func ChildMain() {
	panic("sandbox child entrypoint unreachable on " + runtime.GOOS)
}
