package jail

import (
	"os"

	"github.com/ehrlich-b/robojail/internal/registry"
	"github.com/ehrlich-b/robojail/internal/rjerror"
	"github.com/ehrlich-b/robojail/internal/vcs"
)

// StatusReport is the git-status view of a jail's worktree, including a
// diff-stat summary and (optionally) the full diff text.
type StatusReport struct {
	Name     string
	Modified []string
	Added    []string
	Deleted  []string
	Stats    vcs.DiffStats
	Diff     string // only populated when showDiff is true
}

// Status reports a jail's uncommitted worktree changes. It errors if the
// worktree directory no longer exists, since that means the jail's
// filesystem state is unrecoverable, not just quiet.
func Status(reg *registry.Registry, name string, showDiff bool) (*StatusReport, error) {
	rec, err := reg.Get(name)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(rec.WorktreePath); err != nil {
		return nil, rjerror.Wrap(rjerror.ErrJailNotFound, "%s (worktree missing at %s)", name, rec.WorktreePath)
	}

	entries, err := vcs.Status(rec.WorktreePath)
	if err != nil {
		return nil, err
	}

	report := &StatusReport{Name: name}
	for _, e := range entries {
		switch e.Kind {
		case "modified":
			report.Modified = append(report.Modified, e.Path)
		case "added":
			report.Added = append(report.Added, e.Path)
		case "deleted":
			report.Deleted = append(report.Deleted, e.Path)
		}
	}

	stats, err := vcs.DiffStat(rec.WorktreePath)
	if err == nil {
		report.Stats = stats
	}

	if showDiff {
		diff, err := vcs.Diff(rec.WorktreePath)
		if err == nil {
			report.Diff = diff
		}
	}

	return report, nil
}
