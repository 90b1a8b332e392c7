package registry

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ehrlich-b/robojail/internal/rjerror"
)

func TestLoadMissingFileReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	r, err := Load(filepath.Join(dir, "jails.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(r.Jails) != 0 {
		t.Fatalf("expected empty registry, got %d jails", len(r.Jails))
	}
}

func TestLoadCorruptedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jails.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !errors.Is(err, rjerror.ErrStateCorrupted) {
		t.Fatalf("expected ErrStateCorrupted, got %v", err)
	}
}

func TestAddGetRemoveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "jails.json")
	r, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	rec := &JailRecord{
		ID:           NewID(),
		Name:         "myjail",
		RepoPath:     "/repo",
		WorktreePath: "/data/jails/myjail",
		BranchName:   "robojail/myjail-abc12345",
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.Add(rec); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := r.Add(rec); !errors.Is(err, rjerror.ErrJailExists) {
		t.Fatalf("expected ErrJailExists on duplicate add, got %v", err)
	}

	// Reload from disk to confirm persistence.
	r2, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	got, err := r2.Get("myjail")
	if err != nil {
		t.Fatalf("Get after reload: %v", err)
	}
	if got.BranchName != rec.BranchName {
		t.Errorf("BranchName = %q, want %q", got.BranchName, rec.BranchName)
	}

	if _, err := r2.Remove("myjail"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := r2.Get("myjail"); !errors.Is(err, rjerror.ErrJailNotFound) {
		t.Fatalf("expected ErrJailNotFound after remove, got %v", err)
	}
}

func TestListSortedByCreatedAt(t *testing.T) {
	dir := t.TempDir()
	r, err := Load(filepath.Join(dir, "jails.json"))
	if err != nil {
		t.Fatal(err)
	}

	base := time.Now().UTC()
	names := []string{"c", "a", "b"}
	for i, name := range names {
		rec := &JailRecord{
			ID:           NewID(),
			Name:         name,
			CreatedAt:    base.Add(time.Duration(-i) * time.Hour),
			WorktreePath: "/x/" + name,
		}
		if err := r.Add(rec); err != nil {
			t.Fatal(err)
		}
	}

	list := r.List()
	if len(list) != 3 {
		t.Fatalf("expected 3 jails, got %d", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i-1].CreatedAt.After(list[i].CreatedAt) {
			t.Fatalf("List not sorted by CreatedAt: %v", list)
		}
	}
}

func TestIsPIDAliveCurrentProcess(t *testing.T) {
	if !IsPIDAlive(os.Getpid()) {
		t.Fatal("current process should be alive")
	}
}

func TestIsPIDAliveBogusPID(t *testing.T) {
	// A PID this large is virtually guaranteed not to exist.
	if IsPIDAlive(1 << 30) {
		t.Fatal("expected bogus PID to be reported dead")
	}
}
