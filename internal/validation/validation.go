// Package validation holds the small precondition checks jail lifecycle
// operations run before doing anything expensive: name syntax, path
// existence, and whether a path looks like a git repository.
package validation

import (
	"os"
	"path/filepath"

	"github.com/ehrlich-b/robojail/internal/rjerror"
)

const maxNameLen = 64

// ValidJailName reports whether name matches spec.md's jail name grammar:
// [A-Za-z0-9_][A-Za-z0-9_-]{0,63}.
func ValidJailName(name string) bool {
	if name == "" || len(name) > maxNameLen {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			continue
		case r == '-' && i > 0:
			continue
		default:
			return false
		}
	}
	return true
}

// ValidateJailName returns a typed error if name doesn't match the jail
// name grammar.
func ValidateJailName(name string) error {
	if !ValidJailName(name) {
		return rjerror.Wrap(rjerror.ErrInvalidJailName, "%q", name)
	}
	return nil
}

// ValidatePathExists returns a typed error if path doesn't exist.
func ValidatePathExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		return rjerror.Wrap(rjerror.ErrPathNotFound, "%s", path)
	}
	return nil
}

// ValidateGitRepo returns a typed error if path doesn't exist or isn't a
// git repository (no .git entry).
func ValidateGitRepo(path string) error {
	if err := ValidatePathExists(path); err != nil {
		return err
	}
	if _, err := os.Stat(filepath.Join(path, ".git")); err != nil {
		return rjerror.Wrap(rjerror.ErrNotGitRepo, "%s", path)
	}
	return nil
}
