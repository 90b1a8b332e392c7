//go:build integration

package sandbox_test

// Full namespace/mount/pivot_root exercises require CLONE_NEWUSER support
// and are not safe to run unconditionally in CI — they're gated behind the
// integration build tag and run with `go test -tags integration ./...` on a
// host (or container) where unprivileged user namespaces are enabled.

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/ehrlich-b/robojail/internal/sandbox"
)

func TestBuildAndRunEcho(t *testing.T) {
	if os.Getenv("ROBOJAIL_SKIP_NS_TESTS") != "" {
		t.Skip("namespace tests disabled in this environment")
	}

	worktree := t.TempDir()

	cmd, err := sandbox.Build(sandbox.Config{
		WorktreePath:   worktree,
		NetworkEnabled: false,
		Env:            []string{"HOME=/home/user", "PATH=/usr/bin:/bin"},
		Entrypoint:     []string{"/bin/echo", "hello-from-jail"},
		Workdir:        "/",
	})
	if err != nil {
		var ee *sandbox.EnforcementError
		if errors.As(err, &ee) {
			t.Skipf("namespaces unavailable on this host: %v", err)
		}
		t.Fatalf("Build: %v", err)
	}

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	if err := cmd.Run(); err != nil {
		t.Fatalf("Run: %v, output: %s", err, out.String())
	}

	if got := out.String(); got != "hello-from-jail\n" {
		t.Errorf("output = %q, want %q", got, "hello-from-jail\n")
	}
}

func TestBuildRejectsMissingEntrypoint(t *testing.T) {
	_, err := sandbox.Build(sandbox.Config{WorktreePath: t.TempDir()})
	if err == nil {
		t.Fatal("expected error for missing entrypoint")
	}
}
