package jail

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/robojail/internal/registry"
	"github.com/ehrlich-b/robojail/internal/rjerror"
	"github.com/ehrlich-b/robojail/internal/vcs"
)

// Destroy removes a jail's worktree and branch and drops it from the
// registry. If the jail is still running, Destroy refuses unless force
// is set, in which case it SIGTERMs the tracked PID, waits briefly, and
// SIGKILLs if it's still alive before cleaning up.
func Destroy(reg *registry.Registry, name string, force bool) error {
	rec, err := reg.Get(name)
	if err != nil {
		return err
	}

	if rec.PID != nil && registry.IsPIDAlive(*rec.PID) {
		if !force {
			return rjerror.Wrap(rjerror.ErrJailRunning, "jail %q", name)
		}
		_ = unix.Kill(*rec.PID, unix.SIGTERM)
		time.Sleep(500 * time.Millisecond)
		if registry.IsPIDAlive(*rec.PID) {
			_ = unix.Kill(*rec.PID, unix.SIGKILL)
		}
	}

	if err := vcs.RemoveWorktree(rec.RepoPath, rec.WorktreePath, force); err != nil {
		return err
	}
	if err := vcs.RemoveDirBestEffort(rec.WorktreePath); err != nil {
		return err
	}
	vcs.PruneWorktrees(rec.RepoPath)

	_, err = reg.Remove(name)
	return err
}
