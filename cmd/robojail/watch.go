package main

import (
	"io/fs"
	"path/filepath"
)

// walkDirsSkippingDotGit calls fn for every directory under root,
// skipping .git entirely — its own churn (index locks, packed-refs
// rewrites) would otherwise drown out the worktree changes status
// --watch actually cares about.
func walkDirsSkippingDotGit(root string, fn func(dir string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == ".git" {
			return filepath.SkipDir
		}
		return fn(path)
	})
}
