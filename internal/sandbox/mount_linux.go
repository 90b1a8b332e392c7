//go:build linux

package sandbox

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/robojail/internal/logger"
	"github.com/ehrlich-b/robojail/internal/rjerror"
)

// makeMountsPrivate marks "/" MS_PRIVATE|MS_REC so none of the bind
// mounts we're about to create leak back into the host's (or systemd's
// shared-by-default) mount table.
func makeMountsPrivate() error {
	if err := unix.Mount("", "/", "", unix.MS_PRIVATE|unix.MS_REC, ""); err != nil {
		return rjerror.NewMountError("/", fmt.Errorf("make private: %w", err))
	}
	return nil
}

// mountTmpfs mounts a size-bounded tmpfs at target.
func mountTmpfs(target, sizeOpt string) error {
	return mountTmpfsFlags(target, sizeOpt, 0)
}

// mountTmpfsFlags mounts a size-bounded tmpfs at target with extra mount
// flags on top of the always-applied MS_NOSUID|MS_NODEV — used for /dev,
// which also needs MS_NOEXEC so nothing dropped into its tmpfs can be run.
func mountTmpfsFlags(target, sizeOpt string, extraFlags uintptr) error {
	opts := "mode=0755," + sizeOpt
	if err := unix.Mount("tmpfs", target, "tmpfs", unix.MS_NOSUID|unix.MS_NODEV|extraFlags, opts); err != nil {
		return rjerror.NewMountError(target, fmt.Errorf("mount tmpfs: %w", err))
	}
	logger.Debug("mount", "target", target, "fs", "tmpfs", "opts", opts)
	return nil
}

// bindMount bind-mounts source onto target. When readonly is true, a
// second MS_REMOUNT pass makes it read-only: the initial MS_BIND mount
// ignores MS_RDONLY, so there is no way to create a read-only bind mount
// in one step.
func bindMount(source, target string, readonly bool) error {
	if err := unix.Mount(source, target, "", unix.MS_BIND|unix.MS_REC, ""); err != nil {
		return rjerror.NewMountError(target, fmt.Errorf("bind: %w", err))
	}
	if readonly {
		if err := unix.Mount("", target, "", unix.MS_BIND|unix.MS_REMOUNT|unix.MS_RDONLY|unix.MS_REC, ""); err != nil {
			return rjerror.NewMountError(target, fmt.Errorf("remount read-only: %w", err))
		}
	}
	logger.Debug("mount", "target", target, "fs", "bind", "source", source, "readonly", readonly)
	return nil
}

// mountProc bind-mounts /proc from the host. We deliberately never
// mount a fresh procfs here: that requires being PID 1 of a PID
// namespace, and this jail intentionally doesn't create one (see
// design notes on why no PID namespace). /proc can never be mounted
// read-only either — the kernel rejects MS_RDONLY on procfs mounts that
// still need to reflect live process state.
func mountProc(target string) error {
	return bindMount("/proc", target, false)
}

// deviceNode is one /dev entry bind-mounted in from the host, rather
// than created as a real device node (which would need CAP_MKNOD).
var deviceNodes = []string{"null", "zero", "random", "urandom", "tty"}

// setupDev assembles a minimal /dev: a small tmpfs, bind-mounted device
// nodes for the handful jailed processes actually need, a devpts
// instance for PTY allocation, and the standard /dev/fd,
// /dev/stdin|stdout|stderr symlinks.
func setupDev(target string) error {
	if err := mountTmpfsFlags(target, "size=64K", unix.MS_NOEXEC); err != nil {
		return err
	}

	for _, dev := range deviceNodes {
		src := filepath.Join("/dev", dev)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dst := filepath.Join(target, dev)
		if err := os.WriteFile(dst, nil, 0o644); err != nil {
			return rjerror.NewMountError(dst, err)
		}
		if err := bindMount(src, dst, false); err != nil {
			return err
		}
	}

	ptsPath := filepath.Join(target, "pts")
	if err := os.MkdirAll(ptsPath, 0o755); err != nil {
		return rjerror.NewMountError(ptsPath, err)
	}
	// devpts may be unavailable in some kernel configs; non-fatal.
	_ = unix.Mount("devpts", ptsPath, "devpts", unix.MS_NOSUID|unix.MS_NOEXEC, "newinstance,ptmxmode=0666,mode=0620")

	_ = os.Symlink("pts/ptmx", filepath.Join(target, "ptmx"))
	_ = os.Symlink("/proc/self/fd", filepath.Join(target, "fd"))
	_ = os.Symlink("/proc/self/fd/0", filepath.Join(target, "stdin"))
	_ = os.Symlink("/proc/self/fd/1", filepath.Join(target, "stdout"))
	_ = os.Symlink("/proc/self/fd/2", filepath.Join(target, "stderr"))

	shmPath := filepath.Join(target, "shm")
	if err := os.MkdirAll(shmPath, 0o755); err != nil {
		return rjerror.NewMountError(shmPath, err)
	}
	_ = unix.Mount("tmpfs", shmPath, "tmpfs", unix.MS_NOSUID|unix.MS_NODEV|unix.MS_NOEXEC, "mode=1777,size=64M")

	return nil
}

// pivotRoot replaces the current mount namespace's root with newRoot,
// unmounting and discarding whatever used to be there.
func pivotRoot(newRoot string) error {
	if err := unix.Chdir(newRoot); err != nil {
		return fmt.Errorf("chdir to new root: %w", err)
	}

	oldRoot := filepath.Join(newRoot, ".old_root")
	if err := os.MkdirAll(oldRoot, 0o755); err != nil {
		return fmt.Errorf("create .old_root: %w", err)
	}

	if err := unix.PivotRoot(newRoot, oldRoot); err != nil {
		return fmt.Errorf("pivot_root: %w", err)
	}
	logger.Debug("pivot_root", "new_root", newRoot)

	if err := unix.Chdir("/"); err != nil {
		return fmt.Errorf("chdir to /: %w", err)
	}

	if err := unix.Unmount("/.old_root", unix.MNT_DETACH); err != nil {
		return fmt.Errorf("unmount old root: %w", err)
	}
	_ = os.Remove("/.old_root")

	return nil
}
