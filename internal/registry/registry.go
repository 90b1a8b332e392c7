// Package registry tracks the set of jails robojail knows about: their
// name, the worktree and branch backing them, and (while running) the PID
// of the sandboxed process. It is a thin JSON file, not a database —
// spec.md calls for a single <state_dir>/jails.json.
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"

	"github.com/ehrlich-b/robojail/internal/rjerror"
)

// JailRecord is the persisted description of one jail.
type JailRecord struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	RepoPath     string    `json:"repo_path"`
	WorktreePath string    `json:"worktree_path"`
	BranchName   string    `json:"branch_name"`
	CreatedAt    time.Time `json:"created_at"`
	PID          *int      `json:"pid,omitempty"`
	Entrypoint   []string  `json:"entrypoint,omitempty"`
}

// Registry is the in-memory, file-backed set of jails. It is not
// goroutine-safe; callers are expected to be a single CLI invocation at a
// time, matching spec.md's documented concurrency gap (§9).
type Registry struct {
	path  string
	Jails map[string]*JailRecord `json:"jails"`
}

// Load reads the registry from path, or returns an empty Registry if the
// file doesn't exist yet. A malformed file is reported as ErrStateCorrupted
// rather than silently discarded — losing track of a live jail's PID and
// worktree would leak both.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Registry{path: path, Jails: map[string]*JailRecord{}}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var r Registry
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, rjerror.Wrap(rjerror.ErrStateCorrupted, "parsing %s", path)
	}
	if r.Jails == nil {
		r.Jails = map[string]*JailRecord{}
	}
	r.path = path
	return &r, nil
}

// Save writes the registry to disk atomically: write to a temp file in the
// same directory, then rename over the real path.
func (r *Registry) Save() error {
	if err := os.MkdirAll(filepath.Dir(r.path), 0o755); err != nil {
		return fmt.Errorf("creating state dir: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling registry: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmp, r.path, err)
	}
	return nil
}

// Add inserts a new jail, failing if the name is already taken.
func (r *Registry) Add(rec *JailRecord) error {
	if _, exists := r.Jails[rec.Name]; exists {
		return rjerror.Wrap(rjerror.ErrJailExists, "jail %q", rec.Name)
	}
	r.Jails[rec.Name] = rec
	return r.Save()
}

// Remove deletes a jail by name, returning the removed record.
func (r *Registry) Remove(name string) (*JailRecord, error) {
	rec, ok := r.Jails[name]
	if !ok {
		return nil, rjerror.Wrap(rjerror.ErrJailNotFound, "jail %q", name)
	}
	delete(r.Jails, name)
	if err := r.Save(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get looks up a jail by name.
func (r *Registry) Get(name string) (*JailRecord, error) {
	rec, ok := r.Jails[name]
	if !ok {
		return nil, rjerror.Wrap(rjerror.ErrJailNotFound, "jail %q", name)
	}
	return rec, nil
}

// SetPID updates a jail's tracked PID (nil when the jail is no longer
// running) and persists the change.
func (r *Registry) SetPID(name string, pid *int) error {
	rec, err := r.Get(name)
	if err != nil {
		return err
	}
	rec.PID = pid
	return r.Save()
}

// List returns all jails ordered by creation time, oldest first.
func (r *Registry) List() []*JailRecord {
	out := make([]*JailRecord, 0, len(r.Jails))
	for _, rec := range r.Jails {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// IsPIDAlive reports whether pid names a live process, by probing with
// signal 0. This is advisory only: the PID could have been recycled by an
// unrelated process since the jail exited.
func IsPIDAlive(pid int) bool {
	return unix.Kill(pid, 0) == nil
}

// NewID returns a fresh jail identifier.
func NewID() uuid.UUID {
	return uuid.New()
}
