package walker

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWalkHonorsGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\nbuild/\n")
	writeFile(t, filepath.Join(root, "src", "main.go"), "package main")
	writeFile(t, filepath.Join(root, "debug.log"), "noise")
	writeFile(t, filepath.Join(root, "build", "out.bin"), "binary")

	w, err := New(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	if err := w.Walk(func(f File) error {
		got = append(got, f.RelPath)
		return nil
	}); err != nil {
		t.Fatal(err)
	}

	want := map[string]bool{"src/main.go": true, ".gitignore": true}
	if len(got) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), got)
	}
	for _, g := range got {
		if !want[g] {
			t.Fatalf("unexpected file in walk: %s", g)
		}
	}
}

func TestWalkSkipsAlwaysIgnoredDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "node_modules", "pkg", "index.js"), "x")
	writeFile(t, filepath.Join(root, ".git", "HEAD"), "ref")
	writeFile(t, filepath.Join(root, "app.js"), "x")

	w, err := New(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	if err := w.Walk(func(f File) error {
		got = append(got, f.RelPath)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "app.js" {
		t.Fatalf("expected only app.js, got %v", got)
	}
}

func TestWalkRespectsMaxFileSize(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "small.go"), "ok")
	big := make([]byte, 2048)
	writeFile(t, filepath.Join(root, "big.go"), string(big))

	w, err := New(root, Options{MaxFileSize: 100})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	if err := w.Walk(func(f File) error {
		got = append(got, f.RelPath)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "small.go" {
		t.Fatalf("expected only small.go, got %v", got)
	}
}

func TestWalkNegatedPatternUnignores(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".gitignore"), "*.log\n!keep.log\n")
	writeFile(t, filepath.Join(root, "debug.log"), "x")
	writeFile(t, filepath.Join(root, "keep.log"), "x")

	w, err := New(root, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	if err := w.Walk(func(f File) error {
		got = append(got, f.RelPath)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	found := map[string]bool{}
	for _, g := range got {
		found[g] = true
	}
	if !found["keep.log"] {
		t.Fatal("expected keep.log to be un-ignored by negation")
	}
	if found["debug.log"] {
		t.Fatal("expected debug.log to remain ignored")
	}
}

func TestDetectLanguage(t *testing.T) {
	cases := map[string]string{
		"main.go":   "go",
		"lib.rs":    "rust",
		"app.py":    "python",
		"README.md": "markdown",
		"weird.xyz": "",
	}
	for path, want := range cases {
		if got := DetectLanguage(path); got != want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", path, got, want)
		}
	}
}
