package history

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "history.jsonl"))
}

func TestRecent_MostRecentFirstDeduped(t *testing.T) {
	s := newTestStore(t)
	for _, u := range []string{
		"https://a.example.com",
		"https://b.example.com",
		"https://a.example.com",
	} {
		if err := s.Append(u); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := s.Recent()
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(got) != len(want) {
		t.Fatalf("Recent = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Recent[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRecent_MissingFileIsEmpty(t *testing.T) {
	s := newTestStore(t)
	got, err := s.Recent()
	if err != nil {
		t.Fatalf("Recent on missing file: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Recent = %v, want empty", got)
	}
}

func TestRecent_SkipsCorruptLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.jsonl")
	content := `{"url":"https://a.example.com","time":"2026-01-02T03:04:05Z"}
not json at all
{"time":"2026-01-02T03:04:05Z"}
{"url":"https://b.example.com","time":"2026-01-02T03:04:06Z"}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := NewStore(path).Recent()
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 || got[0] != "https://b.example.com" || got[1] != "https://a.example.com" {
		t.Errorf("Recent = %v, want the two valid URLs most recent first", got)
	}
}

func TestClear(t *testing.T) {
	s := newTestStore(t)
	if err := s.Append("https://a.example.com"); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, err := s.Recent()
	if err != nil {
		t.Fatalf("Recent after Clear: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Recent after Clear = %v", got)
	}
	// Clearing an already empty history is not an error.
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}
