package entrypoint

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"bash", []string{"bash"}},
		{"bash -lc true", []string{"bash", "-lc", "true"}},
		{`bash -c "echo hi there"`, []string{"bash", "-c", "echo hi there"}},
		{`bash -c 'echo hi'`, []string{"bash", "-c", "echo hi"}},
		{"  trimmed   spacing  ", []string{"trimmed", "spacing"}},
		{`quoted"embedded"word`, []string{"quotedembeddedword"}},
	}
	for _, tt := range tests {
		got, err := Tokenize(tt.in)
		if err != nil {
			t.Fatalf("Tokenize(%q) error: %v", tt.in, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestTokenizeErrors(t *testing.T) {
	cases := []string{
		`bash -c "unterminated`,
		`bash -c trailing\`,
		``,
		`   `,
	}
	for _, in := range cases {
		if _, err := Tokenize(in); err == nil {
			t.Errorf("Tokenize(%q) expected error, got none", in)
		}
	}
}

func TestResolveAbsolutePath(t *testing.T) {
	got, err := Resolve("/bin/sh -c true")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 3 || got[1] != "-c" || got[2] != "true" {
		t.Errorf("Resolve = %v, want [.../sh -c true]", got)
	}
}

func TestResolveUnresolvable(t *testing.T) {
	if _, err := Resolve("definitely-not-a-real-binary-xyz"); err == nil {
		t.Fatal("expected error resolving nonexistent binary")
	}
}
