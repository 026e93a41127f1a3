// Package export writes an account's notes to a directory tree, one
// directory per note holding metadata.json, contents.md and optionally
// contents.html.
package export

import (
	"fmt"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/models"
)

// FolderIndex maps folder ids to their root-first path segments.
type FolderIndex struct {
	paths map[string][]string
}

// NewFolderIndex fails on a duplicate folder id: the index would silently
// pick one of the two paths, and exports must be deterministic.
func NewFolderIndex(folders []models.Folder) (*FolderIndex, error) {
	paths := make(map[string][]string, len(folders))
	for _, f := range folders {
		if _, ok := paths[f.ID]; ok {
			return nil, fmt.Errorf("folder id %s: %w", f.ID, common.ErrDuplicateFolder)
		}
		paths[f.ID] = f.Path
	}
	return &FolderIndex{paths: paths}, nil
}

func (idx *FolderIndex) PathOf(id string) ([]string, bool) {
	p, ok := idx.paths[id]
	return p, ok
}
