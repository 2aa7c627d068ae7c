package mirror

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"root with slash", "https://example.com/", "https://example.com/"},
		{"bare host", "https://example.com", "https://example.com"},
		{"directory-like path", "https://example.com/docs", "https://example.com/docs/"},
		{"already trailing slash", "https://example.com/docs/", "https://example.com/docs/"},
		{"file path kept", "https://example.com/a/b.html", "https://example.com/a/b.html"},
		{"fragment stripped", "https://example.com/a/b.html#intro", "https://example.com/a/b.html"},
		{"fragment then slash added", "https://example.com/docs#install", "https://example.com/docs/"},
		{"query survives", "https://example.com/docs?page=2", "https://example.com/docs/?page=2"},
		{"nested directory", "https://example.com/a/b/c", "https://example.com/a/b/c/"},
		{"dotted final segment", "https://example.com/release/v1.2", "https://example.com/release/v1.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"https://example.com/",
		"https://example.com/docs",
		"https://example.com/docs#install",
		"https://example.com/docs?page=2",
		"https://example.com/a/b.html",
		"http://example.com:8080/path/to/thing",
	}

	for _, in := range inputs {
		once := Normalize(in)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}
