package workspace

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestEnsureAt(t *testing.T) {
	base := filepath.Join(t.TempDir(), BaseDirName)
	l, err := EnsureAt(base)
	if err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}
	for _, p := range []string{l.Configs, l.Corpora, l.Reports, l.Data} {
		if info, err := os.Stat(p); err != nil || !info.IsDir() {
			t.Fatalf("expected directory %s: %v", p, err)
		}
	}
	if l.PostsPath("Anxiety") != filepath.Join(base, "corpora", "Anxiety_posts.json") {
		t.Fatalf("unexpected posts path %s", l.PostsPath("Anxiety"))
	}
	if l.PostsPath("../../etc") != filepath.Join(base, "corpora", "etc_posts.json") {
		t.Fatalf("group names must not escape the corpora dir: %s", l.PostsPath("../../etc"))
	}
	if l.ReportPath("results", ".csv") != filepath.Join(base, "reports", "results.csv") {
		t.Fatalf("unexpected report path %s", l.ReportPath("results", ".csv"))
	}
}

func TestDiscoverCorpora(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"anxiety_posts.json", "gardening_posts.json", "notes.json", ".hidden_posts.json"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[]"), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "journal"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.Mkdir(filepath.Join(dir, "anxiety"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := DiscoverCorpora(dir)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	want := []string{"anxiety", "gardening", "journal"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if _, err := DiscoverCorpora(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	if err := WriteAtomic(path, func(w io.Writer) error {
		_, err := io.WriteString(w, "first")
		return err
	}); err != nil {
		t.Fatalf("write: %v", err)
	}

	boom := errors.New("boom")
	if err := WriteAtomic(path, func(w io.Writer) error {
		_, _ = io.WriteString(w, "partial")
		return boom
	}); !errors.Is(err, boom) {
		t.Fatalf("expected fill error, got %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "first" {
		t.Fatalf("failed write must leave the previous file intact, got %q", raw)
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Fatalf("expected temp files to be cleaned up, got %d entries", len(entries))
	}
}

func TestSaveJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := SaveJSON(path, map[string]int{"b": 2, "a": 1}); err != nil {
		t.Fatalf("save: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "{\n  \"a\": 1,\n  \"b\": 2\n}\n" {
		t.Fatalf("unexpected json %q", raw)
	}
}
