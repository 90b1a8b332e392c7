//go:build linux

package sandbox

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/robojail/internal/logger"
)

// setNoNewPrivs prevents the jailed process (and anything it execs)
// from gaining privileges through setuid/setgid binaries or file
// capabilities — without it, a setuid-root binary reachable inside the
// jail could hand back capabilities our user namespace never gave it a
// path to escalate with on the host, but could still matter for
// anything setuid inside the worktree itself.
func setNoNewPrivs() error {
	if _, _, errno := unix.RawSyscall(unix.SYS_PRCTL, unix.PR_SET_NO_NEW_PRIVS, 1, 0); errno != 0 {
		return fmt.Errorf("prctl(PR_SET_NO_NEW_PRIVS): %w", errno)
	}
	return nil
}

// createNewSession detaches from the controlling terminal so the jailed
// process can't use a TIOCSTI ioctl to inject input back into it.
// EPERM means we're already a session leader, which is fine.
func createNewSession() error {
	if _, err := unix.Setsid(); err != nil {
		if err == unix.EPERM {
			return nil
		}
		return fmt.Errorf("setsid: %w", err)
	}
	return nil
}

// installSeccomp applies the BPF filter built by buildSeccompFilter.
// PR_SET_NO_NEW_PRIVS must already be set — the kernel refuses to let an
// unprivileged process install a seccomp filter otherwise, since without
// it a setuid binary exec'd afterward could use the filter to make
// assumptions about the security model it's running under.
func installSeccomp() error {
	prog := buildSeccompFilter()
	if len(prog) == 0 {
		return nil
	}

	fprog := unix.SockFprog{
		Len:    uint16(len(prog)),
		Filter: &prog[0],
	}
	const seccompSetModeFilter = 1
	if _, _, errno := unix.RawSyscall(unix.SYS_SECCOMP, seccompSetModeFilter, 0, uintptr(unsafe.Pointer(&fprog))); errno != 0 {
		return fmt.Errorf("seccomp(SECCOMP_SET_MODE_FILTER): %w", errno)
	}
	logger.Debug("seccomp filter installed", "bpf_instructions", len(prog))
	return nil
}

// applySecurityRestrictions runs the full hardening sequence: no new
// privileges, a fresh session, then the seccomp filter, installed last
// because it denies exactly the mount/pivot_root/ptrace/module syscalls
// that must already be finished being used by this point.
func applySecurityRestrictions() error {
	if err := setNoNewPrivs(); err != nil {
		return err
	}
	if err := createNewSession(); err != nil {
		return err
	}
	return installSeccomp()
}
