package export

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/JaviSoto/apple-notes-cli/internal/filex"
	"github.com/JaviSoto/apple-notes-cli/internal/models"
)

// unit is one note, fully rendered and ready to hit the disk.
type unit struct {
	dir      string
	metadata []byte
	markdown string
	html     string
	hasHTML  bool
}

func metadataJSON(meta models.BackupNoteMetadata) ([]byte, error) {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode metadata for note %s: %w", meta.ID, err)
	}
	return append(data, '\n'), nil
}

func writeUnit(u unit) error {
	if err := filex.EnsureDir(u.dir); err != nil {
		return err
	}
	if err := filex.WriteFile(filepath.Join(u.dir, "metadata.json"), u.metadata); err != nil {
		return err
	}
	if err := filex.WriteFile(filepath.Join(u.dir, "contents.md"), []byte(u.markdown)); err != nil {
		return err
	}
	if u.hasHTML {
		if err := filex.WriteFile(filepath.Join(u.dir, "contents.html"), []byte(u.html)); err != nil {
			return err
		}
	}
	return nil
}
