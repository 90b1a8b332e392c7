//go:build linux

package sandbox

import (
	"os"
	"os/exec"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

// Dangerous syscalls to deny via seccomp, applied after the jail's
// filesystem is fully assembled and just before the final exec. Denying
// MOUNT/UMOUNT2/PIVOT_ROOT closes off the operations the setup step
// itself relies on, so a compromised jailed process can't re-mount its
// way back to the host view; REBOOT/SWAPON/SWAPOFF/the *_MODULE family
// are host-wide operations that have no business succeeding from inside
// a namespace anyway; PTRACE is denied so one jailed process can't
// attach to another.
var deniedSyscalls = []uint32{
	unix.SYS_MOUNT,
	unix.SYS_UMOUNT2,
	unix.SYS_REBOOT,
	unix.SYS_SWAPON,
	unix.SYS_SWAPOFF,
	unix.SYS_KEXEC_LOAD,
	unix.SYS_INIT_MODULE,
	unix.SYS_FINIT_MODULE,
	unix.SYS_DELETE_MODULE,
	unix.SYS_PIVOT_ROOT,
	unix.SYS_PTRACE,
}

// hasNamespaceCapability reports whether the current process can create
// a user namespace: either it's already privileged (root / CAP_SYS_ADMIN),
// or the kernel allows unprivileged user namespace creation.
func hasNamespaceCapability() bool {
	if os.Geteuid() == 0 {
		return true
	}

	// VERSION_1 covers caps 0-31, which includes CAP_SYS_ADMIN (cap 21),
	// and needs only a single CapUserData struct — VERSION_3 requires
	// [2]CapUserData and passing one corrupts the stack, since the
	// kernel writes past the end of what we gave it.
	var hdr unix.CapUserHeader
	var data unix.CapUserData
	hdr.Version = unix.LINUX_CAPABILITY_VERSION_1
	hdr.Pid = 0
	if err := unix.Capget(&hdr, &data); err == nil {
		if data.Effective&(1<<unix.CAP_SYS_ADMIN) != 0 {
			return true
		}
	}

	if val, err := os.ReadFile("/proc/sys/kernel/unprivileged_userns_clone"); err == nil {
		return strings.TrimSpace(string(val)) == "1"
	}
	// Sysctl doesn't exist on this kernel (it's Debian-specific) — most
	// other distros allow unprivileged user namespaces by default. Probe
	// for real rather than guess.
	return probeUserNamespace()
}

// probeUserNamespace spawns a trivial child in a new user namespace to
// test support, the same way any caller would discover EPERM.
func probeUserNamespace() bool {
	cmd := exec.Command("true")
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Cloneflags: syscall.CLONE_NEWUSER,
		UidMappings: []syscall.SysProcIDMap{{
			ContainerID: 0,
			HostID:      os.Getuid(),
			Size:        1,
		}},
		GidMappings: []syscall.SysProcIDMap{{
			ContainerID: 0,
			HostID:      os.Getgid(),
			Size:        1,
		}},
	}
	return cmd.Run() == nil
}

// buildSeccompFilter constructs a BPF program that denies deniedSyscalls
// and allows everything else: load the syscall number, compare against
// each denied syscall in turn, fall through to ALLOW, or jump to a
// trailing ERRNO(EPERM) block on a match.
func buildSeccompFilter() []unix.SockFilter {
	denied := append(append([]uint32{}, deniedSyscalls...), deniedSyscallsArch...)
	n := len(denied)
	if n == 0 {
		return nil
	}

	prog := make([]unix.SockFilter, 0, n+3)
	prog = append(prog, unix.SockFilter{
		Code: unix.BPF_LD | unix.BPF_W | unix.BPF_ABS,
		K:    0, // offsetof(struct seccomp_data, nr)
	})

	for i, nr := range denied {
		jmpToDeny := uint8(n - i)
		prog = append(prog, unix.SockFilter{
			Code: unix.BPF_JMP | unix.BPF_JEQ | unix.BPF_K,
			Jt:   jmpToDeny,
			Jf:   0,
			K:    nr,
		})
	}

	prog = append(prog, unix.SockFilter{
		Code: unix.BPF_RET | unix.BPF_K,
		K:    seccompRetAllow,
	})
	prog = append(prog, unix.SockFilter{
		Code: unix.BPF_RET | unix.BPF_K,
		K:    seccompRetErrno | uint32(unix.EPERM),
	})
	return prog
}

const (
	seccompRetAllow = 0x7fff0000
	seccompRetErrno = 0x00050000
)
