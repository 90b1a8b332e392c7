// Package jail wires together internal/registry, internal/vcs,
// internal/sandbox, internal/entrypoint, and internal/config into the
// six jail lifecycle operations: create, enter, run, list, destroy, and
// status.
package jail

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ehrlich-b/robojail/internal/config"
	"github.com/ehrlich-b/robojail/internal/entrypoint"
	"github.com/ehrlich-b/robojail/internal/registry"
	"github.com/ehrlich-b/robojail/internal/rjerror"
	"github.com/ehrlich-b/robojail/internal/validation"
	"github.com/ehrlich-b/robojail/internal/vcs"
)

// CreateOptions describes a new jail.
type CreateOptions struct {
	Name       string
	RepoPath   string
	BaseRef    string // "HEAD" if empty
	Entrypoint string // raw, unresolved entrypoint string; optional
}

// Create validates the request, adds a git worktree on a fresh
// robojail/<name>-<8hex> branch, resolves the entrypoint (if any) up
// front so a typo fails at create time rather than inside the sandbox,
// and records the new jail in the registry.
func Create(reg *registry.Registry, opts CreateOptions) (*registry.JailRecord, error) {
	if err := validation.ValidateJailName(opts.Name); err != nil {
		return nil, err
	}
	if err := validation.ValidateGitRepo(opts.RepoPath); err != nil {
		return nil, err
	}

	if _, err := reg.Get(opts.Name); err == nil {
		return nil, rjerror.Wrap(rjerror.ErrJailExists, "jail %q", opts.Name)
	}

	id := registry.NewID()
	branchName := fmt.Sprintf("robojail/%s-%s", opts.Name, id.String()[:8])

	jailsDir, err := config.JailsDir()
	if err != nil {
		return nil, fmt.Errorf("resolve jails dir: %w", err)
	}
	worktreePath := filepath.Join(jailsDir, opts.Name)
	if err := os.MkdirAll(filepath.Dir(worktreePath), 0o755); err != nil {
		return nil, fmt.Errorf("create jails dir: %w", err)
	}

	baseRef := opts.BaseRef
	if baseRef == "" {
		baseRef = "HEAD"
	}

	if err := vcs.AddWorktree(opts.RepoPath, worktreePath, branchName, baseRef); err != nil {
		_ = os.RemoveAll(worktreePath)
		return nil, err
	}

	var resolvedEntrypoint []string
	if opts.Entrypoint != "" {
		resolvedEntrypoint, err = entrypoint.Resolve(opts.Entrypoint)
		if err != nil {
			_ = vcs.RemoveWorktree(opts.RepoPath, worktreePath, true)
			_ = os.RemoveAll(worktreePath)
			return nil, err
		}
	}

	absRepo, err := canonicalize(opts.RepoPath)
	if err != nil {
		absRepo = opts.RepoPath
	}

	rec := &registry.JailRecord{
		ID:           id,
		Name:         opts.Name,
		RepoPath:     absRepo,
		WorktreePath: worktreePath,
		BranchName:   branchName,
		CreatedAt:    time.Now().UTC(),
		Entrypoint:   resolvedEntrypoint,
	}

	if err := reg.Add(rec); err != nil {
		_ = vcs.RemoveWorktree(opts.RepoPath, worktreePath, true)
		_ = os.RemoveAll(worktreePath)
		return nil, err
	}

	return rec, nil
}

// canonicalize matches spec.md §3's "repo_path is canonicalized" invariant:
// absolute, with symlinks resolved, the way the Rust original's
// std::fs::canonicalize does.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
