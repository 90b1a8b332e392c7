package vcs

import "testing"

func TestParseDiffStats(t *testing.T) {
	tests := []struct {
		in   string
		want DiffStats
	}{
		{
			in:   " file.go | 10 +++++-----\n 1 file changed, 5 insertions(+), 5 deletions(-)\n",
			want: DiffStats{Insertions: 5, Deletions: 5, FilesChanged: 1},
		},
		{
			in:   " 3 files changed, 42 insertions(+), 10 deletions(-)\n",
			want: DiffStats{Insertions: 42, Deletions: 10, FilesChanged: 3},
		},
		{
			in:   " 1 file changed, 2 insertions(+)\n",
			want: DiffStats{Insertions: 2, Deletions: 0, FilesChanged: 1},
		},
		{
			in:   "",
			want: DiffStats{},
		},
	}
	for _, tt := range tests {
		got := parseDiffStats(tt.in)
		if got != tt.want {
			t.Errorf("parseDiffStats(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestStatusParsesPorcelainCodes(t *testing.T) {
	// Exercised against a real repo in jail_test.go (integration); here we
	// only check the classification helper indirectly isn't exported, so
	// this is covered through Status() in the integration suite.
	t.Skip("covered by internal/jail integration tests against a real worktree")
}
