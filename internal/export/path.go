package export

import (
	"path/filepath"
	"strings"

	"github.com/JaviSoto/apple-notes-cli/internal/coredata"
	"github.com/JaviSoto/apple-notes-cli/internal/filex"
)

const maxTitleLen = 80

// noteDirName builds a stable directory name from the note title and the
// tail of its id, so renamed exports of the same note collide rather than
// duplicate.
func noteDirName(title, id string) string {
	name := filex.SanitizeFileName(strings.TrimSpace(title))
	if name == "" {
		name = "Untitled"
	}
	if runes := []rune(name); len(runes) > maxTitleLen {
		name = string(runes[:maxTitleLen])
	}
	return name + "-" + coredata.IDSuffix(id)
}

// noteDir resolves the on-disk directory for a note under root, one
// sanitized path segment per folder.
func noteDir(root string, folderPath []string, title, id string) string {
	parts := make([]string, 0, len(folderPath)+2)
	parts = append(parts, root)
	for _, seg := range folderPath {
		parts = append(parts, filex.SanitizeFileName(seg))
	}
	parts = append(parts, noteDirName(title, id))
	return filepath.Join(parts...)
}
