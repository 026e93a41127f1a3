package backend

import (
	"fmt"
	"strings"

	"github.com/JaviSoto/apple-notes-cli/internal/models"
)

// extractLogPayload strips the "log:"-style prefix osascript prepends to
// `log` output on some systems. Returns the line unchanged when no prefix
// is present.
func extractLogPayload(line string) string {
	trimmed := strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(trimmed, "log:"); ok {
		return strings.TrimSpace(rest)
	}
	return trimmed
}

// parseNoteSummariesTSV decodes id<TAB>title<TAB>folderId lines. Blank
// lines are skipped; a line with fewer than three fields is an error.
func parseNoteSummariesTSV(s string) ([]models.NoteSummary, error) {
	var out []models.NoteSummary
	for i, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 {
			return nil, fmt.Errorf("malformed note summary on line %d: %q", i+1, line)
		}
		out = append(out, models.NoteSummary{
			ID:       parts[0],
			Title:    parts[1],
			FolderID: parts[2],
		})
	}
	return out, nil
}
