// Package backend defines the capability interface over the Notes data
// source and its three implementations: the automation bridge (Osascript),
// the database-backed Hybrid, and the offline Fixture.
//
// The implementation is chosen exactly once at startup; call sites only
// ever see the Backend interface.
package backend

import (
	"context"

	"github.com/JaviSoto/apple-notes-cli/internal/config"
	"github.com/JaviSoto/apple-notes-cli/internal/logging"
	"github.com/JaviSoto/apple-notes-cli/internal/models"
	"github.com/JaviSoto/apple-notes-cli/internal/notesdb"
)

// Backend is the full capability surface consumed by the CLI and the
// export pipeline. Reads vary per implementation; writes always reach the
// live application through the automation bridge.
type Backend interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	ListFolders(ctx context.Context, account string) ([]models.Folder, error)
	ListNotes(ctx context.Context, account string) ([]models.NoteSummary, error)
	ListNotesInFolder(ctx context.Context, account string, folderPath []string) ([]models.NoteSummary, error)

	// StreamNoteSummaries invokes onNote for every summary found. A nil
	// folderPath means the whole account. It exists so callers can report
	// progress while slow listings are still running.
	StreamNoteSummaries(ctx context.Context, account string, folderPath []string, onNote func(models.NoteSummary)) error

	GetNote(ctx context.Context, id string) (models.Note, error)

	CreateNoteHTML(ctx context.Context, account string, folderPath []string, title, bodyHTML string) (string, error)
	SetNoteTitle(ctx context.Context, id, title string) error
	SetNoteBodyHTML(ctx context.Context, id, bodyHTML string) error
	AppendNoteBodyHTML(ctx context.Context, id, bodyHTML string) error
	DeleteNote(ctx context.Context, id string) error
	MoveNote(ctx context.Context, id, account string, folderPath []string) error

	CreateFolder(ctx context.Context, account string, parentPath []string, name string) (string, error)
	RenameFolder(ctx context.Context, account string, folderPath []string, name string) error
	DeleteFolder(ctx context.Context, account string, folderPath []string) error
}

// New selects and constructs the backend for this run.
//
// A fixture path always wins (tests/dev). Otherwise the configured mode
// decides; auto prefers the database when it can be opened and falls back
// to the bridge.
func New(ctx context.Context, cfg *config.Config, log logging.Logger) (Backend, error) {
	if cfg.FixturePath != "" {
		return NewFixtureFromFile(cfg.FixturePath)
	}

	osa := NewOsascript(cfg.OsascriptBin, cfg.DebugScripts, log)

	switch cfg.Backend {
	case config.BackendOsascript:
		return osa, nil
	case config.BackendDB:
		store, err := notesdb.OpenDefault(ctx)
		if err != nil {
			return nil, err
		}
		return NewHybrid(store, osa), nil
	default: // config.BackendAuto
		store, err := notesdb.OpenDefault(ctx)
		if err != nil {
			log.Debug(ctx, "notes db unavailable, using automation bridge", "err", err)
			return osa, nil
		}
		return NewHybrid(store, osa), nil
	}
}
