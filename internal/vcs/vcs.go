// Package vcs is the thin boundary robojail talks to git worktrees
// through. It is deliberately minimal: spec.md treats the VCS layer as an
// external collaborator, specified only at the edge of what robojail
// calls into it for.
package vcs

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/ehrlich-b/robojail/internal/rjerror"
)

// AddWorktree creates a new worktree at worktreePath, on a new branch
// branchName, based on baseRef ("HEAD" if unsure).
func AddWorktree(repoPath, worktreePath, branchName, baseRef string) error {
	cmd := exec.Command("git", "-C", repoPath, "worktree", "add", "-b", branchName, worktreePath, baseRef)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return rjerror.Wrap(rjerror.ErrWorktreeCreation, "%s", strings.TrimSpace(string(out)))
	}
	return nil
}

// RemoveWorktree removes a worktree, retrying with --force if the plain
// removal fails because of dirty or untracked state, or if force is
// already requested up front.
func RemoveWorktree(repoPath, worktreePath string, force bool) error {
	cmd := exec.Command("git", "-C", repoPath, "worktree", "remove", worktreePath)
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}

	stderr := string(out)
	if !force && !strings.Contains(stderr, "dirty") && !strings.Contains(stderr, "untracked") {
		return rjerror.Wrap(rjerror.ErrWorktreeRemoval, "%s", strings.TrimSpace(stderr))
	}

	forceCmd := exec.Command("git", "-C", repoPath, "worktree", "remove", "--force", worktreePath)
	if out, err := forceCmd.CombinedOutput(); err != nil {
		return rjerror.Wrap(rjerror.ErrWorktreeRemoval, "--force: %s", strings.TrimSpace(string(out)))
	}
	return nil
}

// PruneWorktrees removes stale worktree administrative files. Failures
// are non-fatal by design: pruning is best-effort cleanup, never load
// bearing for correctness.
func PruneWorktrees(repoPath string) {
	_ = exec.Command("git", "-C", repoPath, "worktree", "prune").Run()
}

// RemoveDirBestEffort removes a worktree directory that git worktree
// remove left behind (e.g. because the repo-side metadata was already
// gone). Failures are logged by the caller, not returned, matching the
// original's "warn and continue" cleanup behavior.
func RemoveDirBestEffort(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	return os.RemoveAll(path)
}

// FileStatus is one entry from `git status --porcelain`.
type FileStatus struct {
	Path string
	Kind string // "modified", "added", or "deleted"
}

// Status runs `git status --porcelain` against worktreePath and
// classifies each entry the way the original jail status command does:
// renames surface as a modification of the new path.
func Status(worktreePath string) ([]FileStatus, error) {
	cmd := exec.Command("git", "-C", worktreePath, "status", "--porcelain")
	out, err := cmd.Output()
	if err != nil {
		return nil, rjerror.Wrap(rjerror.ErrGitCommand, "git status: %v", err)
	}

	var entries []FileStatus
	for _, line := range strings.Split(string(out), "\n") {
		if len(line) < 3 {
			continue
		}
		code := strings.TrimSpace(line[0:2])
		file := strings.TrimSpace(line[3:])

		switch code {
		case "M", "MM", "AM", "":
			entries = append(entries, FileStatus{Path: file, Kind: "modified"})
		case "A", "??":
			entries = append(entries, FileStatus{Path: file, Kind: "added"})
		case "D":
			entries = append(entries, FileStatus{Path: file, Kind: "deleted"})
		case "R":
			if _, new, ok := strings.Cut(file, " -> "); ok {
				entries = append(entries, FileStatus{Path: new, Kind: "modified"})
			} else {
				entries = append(entries, FileStatus{Path: file, Kind: "modified"})
			}
		default:
			if file != "" {
				entries = append(entries, FileStatus{Path: file, Kind: "modified"})
			}
		}
	}
	return entries, nil
}

// DiffStats summarizes `git diff --stat` against a worktree.
type DiffStats struct {
	Insertions   int `json:"insertions"`
	Deletions    int `json:"deletions"`
	FilesChanged int `json:"files_changed"`
}

// DiffStat runs `git diff --stat` with a wide stat width (so long
// filenames aren't truncated) and parses its trailing summary line.
func DiffStat(worktreePath string) (DiffStats, error) {
	cmd := exec.Command("git", "-C", worktreePath, "diff", "--stat", "--stat-width=1000")
	out, err := cmd.Output()
	if err != nil {
		return DiffStats{}, nil
	}
	return parseDiffStats(string(out)), nil
}

func parseDiffStats(output string) DiffStats {
	lines := strings.Split(strings.TrimRight(output, "\n"), "\n")
	if len(lines) == 0 || lines[len(lines)-1] == "" {
		return DiffStats{}
	}
	summary := lines[len(lines)-1]

	var stats DiffStats
	if idx := strings.Index(summary, "file"); idx >= 0 {
		stats.FilesChanged = lastInt(summary[:idx])
	}
	if idx := strings.Index(summary, "insertion"); idx >= 0 {
		stats.Insertions = lastInt(summary[:idx])
	}
	if idx := strings.Index(summary, "deletion"); idx >= 0 {
		before := summary[:idx]
		if comma := strings.LastIndex(before, ","); comma >= 0 {
			before = before[comma+1:]
		}
		stats.Deletions = lastInt(before)
	}
	return stats
}

func lastInt(s string) int {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return 0
	}
	n, err := strconv.Atoi(fields[len(fields)-1])
	if err != nil {
		return 0
	}
	return n
}

// Diff runs a plain `git diff` and returns its output verbatim.
func Diff(worktreePath string) (string, error) {
	cmd := exec.Command("git", "-C", worktreePath, "diff")
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git diff: %w", err)
	}
	return string(out), nil
}
