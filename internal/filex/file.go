// Package filex provides small filesystem helpers shared by the export
// writer and the CLI.
package filex

import (
	"fmt"
	"os"
	"strings"
)

// EnsureDir creates dir (and any missing parents). It is idempotent.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return nil
}

// WriteFile writes data to path, overwriting unconditionally, and wraps any
// failure with the target path.
func WriteFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// SanitizeFileName strips characters that are unsafe in file or directory
// names on common filesystems: path separators, shell-hostile punctuation,
// and control characters. The remaining text is trimmed of surrounding
// whitespace and trailing dots.
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ':' || r == '*' || r == '?' ||
			r == '"' || r == '<' || r == '>' || r == '|':
			// dropped
		case r < 0x20 || r == 0x7f:
			// dropped
		default:
			b.WriteRune(r)
		}
	}
	out := strings.TrimSpace(b.String())
	out = strings.TrimRight(out, ".")
	return out
}
