package jail

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/ehrlich-b/robojail/internal/config"
	"github.com/ehrlich-b/robojail/internal/registry"
)

// newTestRepo creates a throwaway git repo with one commit, returning its
// path. Tests skip if git isn't on PATH.
func newTestRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com",
		)
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-b", "main")
	if err := os.WriteFile(filepath.Join(dir, "README.md"), []byte("hello\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	run("add", "README.md")
	run("commit", "-m", "initial")
	return dir
}

func newTestRegistry(t *testing.T) (*registry.Registry, string) {
	t.Helper()
	stateDir := t.TempDir()
	reg, err := registry.Load(filepath.Join(stateDir, "jails.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return reg, stateDir
}

func withJailsDir(t *testing.T, dir string) {
	t.Helper()
	t.Setenv("HOME", dir)
}

func TestCreateRejectsInvalidName(t *testing.T) {
	reg, _ := newTestRegistry(t)
	repo := newTestRepo(t)
	withJailsDir(t, t.TempDir())

	_, err := Create(reg, CreateOptions{Name: "bad name!", RepoPath: repo})
	if err == nil {
		t.Fatal("expected error for invalid jail name")
	}
}

func TestCreateRejectsNonGitRepo(t *testing.T) {
	reg, _ := newTestRegistry(t)
	withJailsDir(t, t.TempDir())

	_, err := Create(reg, CreateOptions{Name: "mybox", RepoPath: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for non-git repo")
	}
}

func TestCreateAddsWorktreeAndRecord(t *testing.T) {
	reg, _ := newTestRegistry(t)
	repo := newTestRepo(t)
	withJailsDir(t, t.TempDir())

	rec, err := Create(reg, CreateOptions{Name: "mybox", RepoPath: repo})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.Name != "mybox" {
		t.Errorf("Name = %q, want mybox", rec.Name)
	}
	if _, err := os.Stat(rec.WorktreePath); err != nil {
		t.Errorf("worktree not created: %v", err)
	}
	if got, err := reg.Get("mybox"); err != nil || got.WorktreePath != rec.WorktreePath {
		t.Errorf("registry did not persist the new jail")
	}
}

func TestCreateRejectsDuplicateName(t *testing.T) {
	reg, _ := newTestRegistry(t)
	repo := newTestRepo(t)
	withJailsDir(t, t.TempDir())

	if _, err := Create(reg, CreateOptions{Name: "mybox", RepoPath: repo}); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if _, err := Create(reg, CreateOptions{Name: "mybox", RepoPath: repo}); err == nil {
		t.Fatal("expected error creating a duplicate jail name")
	}
}

func TestDestroyRemovesWorktreeAndRecord(t *testing.T) {
	reg, _ := newTestRegistry(t)
	repo := newTestRepo(t)
	withJailsDir(t, t.TempDir())

	rec, err := Create(reg, CreateOptions{Name: "mybox", RepoPath: repo})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := Destroy(reg, "mybox", false); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := os.Stat(rec.WorktreePath); !os.IsNotExist(err) {
		t.Errorf("worktree still present after Destroy")
	}
	if _, err := reg.Get("mybox"); err == nil {
		t.Error("registry still has jail after Destroy")
	}
}

func TestDestroyUnknownJail(t *testing.T) {
	reg, _ := newTestRegistry(t)
	if err := Destroy(reg, "nope", false); err == nil {
		t.Fatal("expected error destroying an unknown jail")
	}
}

func TestListReportsStoppedByDefault(t *testing.T) {
	reg, _ := newTestRegistry(t)
	repo := newTestRepo(t)
	withJailsDir(t, t.TempDir())

	if _, err := Create(reg, CreateOptions{Name: "mybox", RepoPath: repo}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	entries := List(reg)
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if entries[0].Status != "stopped" {
		t.Errorf("Status = %q, want stopped", entries[0].Status)
	}
	if entries[0].Branch == entries[0].Name {
		t.Errorf("Branch should have the robojail/ prefix stripped, got %q", entries[0].Branch)
	}
}

func TestStatusReportsUncommittedChanges(t *testing.T) {
	reg, _ := newTestRegistry(t)
	repo := newTestRepo(t)
	withJailsDir(t, t.TempDir())

	rec, err := Create(reg, CreateOptions{Name: "mybox", RepoPath: repo})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := os.WriteFile(filepath.Join(rec.WorktreePath, "new.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := Status(reg, "mybox", false)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(report.Added) != 1 || report.Added[0] != "new.txt" {
		t.Errorf("Added = %v, want [new.txt]", report.Added)
	}
}

func TestStatusMissingWorktree(t *testing.T) {
	reg, _ := newTestRegistry(t)
	repo := newTestRepo(t)
	withJailsDir(t, t.TempDir())

	rec, err := Create(reg, CreateOptions{Name: "mybox", RepoPath: repo})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := os.RemoveAll(rec.WorktreePath); err != nil {
		t.Fatal(err)
	}

	if _, err := Status(reg, "mybox", false); err == nil {
		t.Fatal("expected error for missing worktree")
	}
}

func TestBuildEnvSeedsFixedVarsAndPassthrough(t *testing.T) {
	t.Setenv("TERM", "xterm-256color")
	t.Setenv("SECRET", "xyz")

	cfg := config.Default()
	env := buildEnv(cfg)

	want := map[string]string{
		"HOME":     "/home/user",
		"USER":     "user",
		"ROBOJAIL": "1",
		"TERM":     "xterm-256color",
	}
	seen := map[string]bool{}
	for _, kv := range env {
		for k, v := range want {
			if kv == k+"="+v {
				seen[k] = true
			}
		}
		if kv == "SECRET=xyz" {
			t.Error("buildEnv leaked SECRET from the host environment")
		}
	}
	for k := range want {
		if !seen[k] {
			t.Errorf("buildEnv missing %s", k)
		}
	}
}
