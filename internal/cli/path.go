package cli

import (
	"fmt"
	"strings"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
)

// SplitFolderPath parses the user-facing folder address, segments joined
// by " > ". Surrounding whitespace per segment is dropped; an empty
// segment is an error.
func SplitFolderPath(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty folder path: %w", common.ErrBadConfig)
	}
	parts := strings.Split(s, ">")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, fmt.Errorf("folder path %q has an empty segment: %w", s, common.ErrBadConfig)
		}
		out = append(out, p)
	}
	return out, nil
}
