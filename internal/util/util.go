// internal/util/util.go
package util

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// EnsureDir creates dir and its parents. The current directory is a no-op.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create directory %s: %w", dir, err)
	}
	return nil
}

// WriteFile writes data to path with 0o644 permissions, creating the parent
// directory first.
func WriteFile(path string, data []byte) error {
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// TruncateRunes truncates a string to a maximum number of runes,
// appending an ellipsis if truncated.
func TruncateRunes(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return string(runes[:maxRunes]) + "…"
}

// TruncateLeftRunes keeps the last maxRunes runes of text, prefixing an
// ellipsis if truncated. Paths stay recognizable by their tail.
func TruncateLeftRunes(text string, maxRunes int) string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return text
	}
	runes := []rune(text)
	return "…" + string(runes[len(runes)-maxRunes:])
}
