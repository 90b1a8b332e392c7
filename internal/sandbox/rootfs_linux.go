//go:build linux

package sandbox

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ehrlich-b/robojail/internal/rjerror"
)

// systemDirs are overlaid read-only on top of the worktree so the jailed
// process has a working userland (a shell, coreutils, libc, the
// language toolchains already on the host) without robojail needing to
// ship or unpack a base image of its own.
var systemDirs = []string{"/usr", "/bin", "/lib", "/lib64", "/sbin"}

// etcPassthroughFiles are copied byte-for-byte from the host's /etc —
// everything needed for DNS and name resolution to work inside the jail,
// without handing over the rest of /etc (most of which either doesn't
// matter in a jail or shouldn't be visible: package manager state,
// machine-id, shadow, etc).
var etcPassthroughFiles = []string{"resolv.conf", "hosts", "nsswitch.conf"}

const jailPasswd = "root:x:0:0:root:/root:/bin/bash\n" +
	"user:x:1000:1000:Jail User:/home/user:/bin/bash\n" +
	"nobody:x:65534:65534:Nobody:/:/usr/bin/nologin\n"

const jailGroup = "root:x:0:\n" +
	"user:x:1000:\n" +
	"nogroup:x:65534:\n"

// assembleRootfs builds the jail's final filesystem under a staging
// tmpfs and pivot_roots into it. Order matters: make-private first (so
// nothing here leaks to the host), then the worktree as the base layer,
// then the read-only system overlay, synthetic /etc, /proc, /dev, /tmp,
// the operator's extra binds, hidden-path masks, and finally
// pivot_root — each of those assumes everything before it is already in
// place.
func assembleRootfs(spec childSpec) error {
	if err := makeMountsPrivate(); err != nil {
		return err
	}

	const stagingRoot = "/tmp/robojail-root"
	if err := os.MkdirAll(stagingRoot, 0o755); err != nil {
		return rjerror.NewMountError(stagingRoot, err)
	}
	if err := mountTmpfs(stagingRoot, "size=512M"); err != nil {
		return err
	}

	if err := bindMount(spec.WorktreePath, stagingRoot, false); err != nil {
		return err
	}

	for _, dir := range systemDirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		dst := filepath.Join(stagingRoot, dir)
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return rjerror.NewMountError(dst, err)
		}
		if err := bindMount(dir, dst, true); err != nil {
			return err
		}
	}

	etcDst := filepath.Join(stagingRoot, "etc")
	if err := os.MkdirAll(etcDst, 0o755); err != nil {
		return rjerror.NewMountError(etcDst, err)
	}
	if err := mountTmpfs(etcDst, "size=8M"); err != nil {
		return err
	}
	for _, name := range etcPassthroughFiles {
		src := filepath.Join("/etc", name)
		content, err := os.ReadFile(src)
		if err != nil {
			continue
		}
		_ = os.WriteFile(filepath.Join(etcDst, name), content, 0o644)
	}
	if err := os.WriteFile(filepath.Join(etcDst, "passwd"), []byte(jailPasswd), 0o644); err != nil {
		return rjerror.NewMountError(filepath.Join(etcDst, "passwd"), err)
	}
	if err := os.WriteFile(filepath.Join(etcDst, "group"), []byte(jailGroup), 0o644); err != nil {
		return rjerror.NewMountError(filepath.Join(etcDst, "group"), err)
	}
	for _, dir := range []string{"ssl", "ca-certificates"} {
		src := filepath.Join("/etc", dir)
		if _, err := os.Stat(src); err != nil {
			continue
		}
		dst := filepath.Join(etcDst, dir)
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return rjerror.NewMountError(dst, err)
		}
		if err := bindMount(src, dst, true); err != nil {
			return err
		}
	}

	homeDst := filepath.Join(stagingRoot, "home", "user")
	if err := os.MkdirAll(homeDst, 0o755); err != nil {
		return rjerror.NewMountError(homeDst, err)
	}

	procDst := filepath.Join(stagingRoot, "proc")
	if err := os.MkdirAll(procDst, 0o755); err != nil {
		return rjerror.NewMountError(procDst, err)
	}
	if err := mountProc(procDst); err != nil {
		return err
	}

	devDst := filepath.Join(stagingRoot, "dev")
	if err := os.MkdirAll(devDst, 0o755); err != nil {
		return rjerror.NewMountError(devDst, err)
	}
	if err := setupDev(devDst); err != nil {
		return err
	}

	tmpDst := filepath.Join(stagingRoot, "tmp")
	if err := os.MkdirAll(tmpDst, 0o755); err != nil {
		return rjerror.NewMountError(tmpDst, err)
	}
	if err := mountTmpfs(tmpDst, "size=256M"); err != nil {
		return err
	}

	for _, src := range spec.ExtraROBinds {
		if err := bindExtra(stagingRoot, src, true); err != nil {
			return err
		}
	}
	for _, src := range spec.ExtraRWBinds {
		if err := bindExtra(stagingRoot, src, false); err != nil {
			return err
		}
	}

	// Conditionally bind the entrypoint binary in: if it doesn't already
	// live under one of the overlaid system dirs, the jail has no other
	// way to see it (the worktree bind only covers the repo, and system
	// dirs are a fixed, narrow list).
	if len(spec.Entrypoint) > 0 {
		epPath := spec.Entrypoint[0]
		inSystemPath := false
		for _, dir := range systemDirs {
			if strings.HasPrefix(epPath, dir+"/") || epPath == dir {
				inSystemPath = true
				break
			}
		}
		if !inSystemPath {
			if err := bindExtra(stagingRoot, epPath, true); err != nil {
				return err
			}
		}
	}

	for _, hidden := range spec.HiddenPaths {
		target := filepath.Join(homeDst, hidden)
		if _, err := os.Stat(target); err != nil {
			continue
		}
		if err := mountTmpfs(target, "size=4K"); err != nil {
			return err
		}
	}

	return pivotRoot(stagingRoot)
}

// bindExtra bind-mounts a host path at the same absolute path inside
// the staged root, creating an empty file or directory to mount over as
// needed (bind mounts require the target to already exist, and to be
// the same kind of thing as the source).
func bindExtra(stagingRoot, src string, readonly bool) error {
	info, err := os.Stat(src)
	if err != nil {
		return nil
	}

	dst := filepath.Join(stagingRoot, src)
	if info.IsDir() {
		if err := os.MkdirAll(dst, 0o755); err != nil {
			return rjerror.NewMountError(dst, err)
		}
	} else {
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return rjerror.NewMountError(dst, err)
		}
		if err := os.WriteFile(dst, nil, 0o644); err != nil {
			return rjerror.NewMountError(dst, err)
		}
	}
	return bindMount(src, dst, readonly)
}
