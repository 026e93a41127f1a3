// Package models defines the data types shared by the backends, the CLI
// and the export pipeline.
package models

import (
	"strings"
	"time"
)

// Account identifies one collection owner inside the Notes store.
type Account struct {
	Name string `json:"name"`
}

// Folder is a single folder with its full root-to-leaf path (including the
// folder's own name).
type Folder struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Account string   `json:"account"`
	Path    []string `json:"path"`
}

// PathString renders the folder path the way users address folders on the
// command line, e.g. "Personal > Archive".
func (f Folder) PathString() string {
	return strings.Join(f.Path, " > ")
}

// NoteSummary is the lightweight listing record.
type NoteSummary struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	FolderID string `json:"folder_id"`
}

// Note is the full record, fetched on demand.
type Note struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	FolderID   string    `json:"folder_id"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
	BodyHTML   string    `json:"body_html"`
}

// BackupNoteMetadata is the sidecar written next to every exported note.
// Timestamps serialize as RFC 3339.
type BackupNoteMetadata struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Account    string    `json:"account"`
	FolderPath []string  `json:"folder_path"`
	CreatedAt  time.Time `json:"created_at"`
	ModifiedAt time.Time `json:"modified_at"`
}
