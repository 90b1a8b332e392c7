package sandbox

import (
	"errors"
	"strings"
	"testing"

	"github.com/ehrlich-b/robojail/internal/rjerror"
)

func TestBuildRejectsEmptyEntrypoint(t *testing.T) {
	_, err := Build(Config{WorktreePath: "/tmp/whatever"})
	if err == nil {
		t.Fatal("expected error for empty entrypoint")
	}
}

func TestEnforcementErrorUnwrapsToSentinel(t *testing.T) {
	var err error = &EnforcementError{Reason: "no CAP_SYS_ADMIN"}
	if !errors.Is(err, rjerror.ErrNamespacesUnavailable) {
		t.Errorf("EnforcementError does not unwrap to ErrNamespacesUnavailable")
	}
}

func TestEnforcementErrorMessage(t *testing.T) {
	err := &EnforcementError{Reason: "no CAP_SYS_ADMIN", Platform: "run as root"}
	msg := err.Error()
	if msg == "" {
		t.Fatal("empty error message")
	}
	if !strings.Contains(msg, "no CAP_SYS_ADMIN") || !strings.Contains(msg, "run as root") {
		t.Errorf("Error() = %q, want it to mention reason and platform", msg)
	}
}
