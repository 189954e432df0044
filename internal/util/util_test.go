// internal/util/util_test.go
package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "analysis.json")
	data := []byte(`{"sources":[]}`)

	if err := WriteFile(path, data); err != nil {
		t.Fatalf("WriteFile returned error: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile error: %v", err)
	}
	if string(got) != string(data) {
		t.Fatalf("unexpected file contents: got %q want %q", got, data)
	}
}

func TestEnsureDir(t *testing.T) {
	t.Parallel()

	if err := EnsureDir("."); err != nil {
		t.Fatalf("EnsureDir(.) returned error: %v", err)
	}
	if err := EnsureDir(""); err != nil {
		t.Fatalf("EnsureDir(\"\") returned error: %v", err)
	}

	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	if err := EnsureDir(filepath.Join(blocker, "charts")); err == nil {
		t.Fatalf("expected error creating a directory below a file")
	}

	dir := filepath.Join(base, "a", "b")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir returned error: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("expected directory %s, err=%v", dir, err)
	}
}

func TestTruncateRunes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{name: "no truncation", in: "r1.json", max: 10, want: "r1.json"},
		{name: "ascii truncation", in: "throughput_run.json", max: 5, want: "throu…"},
		{name: "multibyte truncation", in: "こんにちは世界", max: 4, want: "こんにち…"},
		{name: "zero max", in: "r1.json", max: 0, want: "r1.json"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := TruncateRunes(tt.in, tt.max); got != tt.want {
				t.Fatalf("TruncateRunes(%q,%d)=%q want %q", tt.in, tt.max, got, tt.want)
			}
		})
	}
}

func TestTruncateLeftRunes(t *testing.T) {
	t.Parallel()

	if got := TruncateLeftRunes("runs/a100", 20); got != "runs/a100" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := TruncateLeftRunes("/data/bench/2024/runs/a100", 9); got != "…runs/a100" {
		t.Fatalf("TruncateLeftRunes kept %q", got)
	}
}
