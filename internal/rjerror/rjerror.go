// Package rjerror defines the typed error taxonomy robojail uses across
// jail lifecycle operations, so callers can distinguish "jail already
// exists" from "kernel can't give us a user namespace" without parsing
// strings.
package rjerror

import (
	"errors"
	"fmt"
)

var (
	ErrJailNotFound          = errors.New("jail not found")
	ErrJailExists            = errors.New("jail already exists")
	ErrJailRunning           = errors.New("jail is running")
	ErrNotGitRepo            = errors.New("not a git repository")
	ErrPathNotFound          = errors.New("path not found")
	ErrInvalidJailName       = errors.New("invalid jail name")
	ErrNamespacesUnavailable = errors.New("user namespaces unavailable")
	ErrSandboxSetup          = errors.New("sandbox setup failed")
	ErrWorktreeCreation      = errors.New("worktree creation failed")
	ErrWorktreeRemoval       = errors.New("worktree removal failed")
	ErrGitCommand            = errors.New("git command failed")
	ErrConfig                = errors.New("config error")
	ErrStateCorrupted        = errors.New("jail state corrupted")
)

// MountError reports a mount operation that failed for a specific path,
// carrying enough context to tell the operator what to go look at.
type MountError struct {
	Path  string
	Cause error
}

func (e *MountError) Error() string {
	return fmt.Sprintf("mount failed at %s: %v", e.Path, e.Cause)
}

func (e *MountError) Unwrap() error { return e.Cause }

// NewMountError wraps a mount-time failure with the path it happened at.
func NewMountError(path string, cause error) error {
	return &MountError{Path: path, Cause: cause}
}

// Wrap attaches one of the sentinel kinds above to a lower-level error,
// preserving it for errors.Is/errors.As.
func Wrap(kind error, format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), kind)
}
