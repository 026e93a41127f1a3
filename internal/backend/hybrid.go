package backend

import (
	"context"

	"github.com/JaviSoto/apple-notes-cli/internal/models"
	"github.com/JaviSoto/apple-notes-cli/internal/notesdb"
)

// Hybrid serves listings straight from the on-disk store and routes note
// bodies and every mutation through the automation bridge. The store is
// opened read-only, so writes have to go through the application anyway,
// and the application is the only reliable source of rendered note HTML.
type Hybrid struct {
	store *notesdb.Store
	osa   *Osascript
}

func NewHybrid(store *notesdb.Store, osa *Osascript) *Hybrid {
	return &Hybrid{store: store, osa: osa}
}

// Store exposes the underlying read-only store for callers that fan out
// their own per-worker connections.
func (h *Hybrid) Store() *notesdb.Store { return h.store }

func (h *Hybrid) ListAccounts(ctx context.Context) ([]models.Account, error) {
	return h.store.ListAccounts(ctx)
}

func (h *Hybrid) ListFolders(ctx context.Context, account string) ([]models.Folder, error) {
	return h.store.ListFolders(ctx, account)
}

func (h *Hybrid) ListNotes(ctx context.Context, account string) ([]models.NoteSummary, error) {
	return h.store.ListNotes(ctx, account)
}

func (h *Hybrid) ListNotesInFolder(ctx context.Context, account string, folderPath []string) ([]models.NoteSummary, error) {
	return h.store.ListNotesInFolder(ctx, account, folderPath)
}

func (h *Hybrid) StreamNoteSummaries(ctx context.Context, account string, folderPath []string, onNote func(models.NoteSummary)) error {
	var (
		notes []models.NoteSummary
		err   error
	)
	if folderPath != nil {
		notes, err = h.store.ListNotesInFolder(ctx, account, folderPath)
	} else {
		notes, err = h.store.ListNotes(ctx, account)
	}
	if err != nil {
		return err
	}
	for _, n := range notes {
		onNote(n)
	}
	return nil
}

func (h *Hybrid) GetNote(ctx context.Context, id string) (models.Note, error) {
	return h.osa.GetNote(ctx, id)
}

func (h *Hybrid) CreateNoteHTML(ctx context.Context, account string, folderPath []string, title, bodyHTML string) (string, error) {
	return h.osa.CreateNoteHTML(ctx, account, folderPath, title, bodyHTML)
}

func (h *Hybrid) SetNoteTitle(ctx context.Context, id, title string) error {
	return h.osa.SetNoteTitle(ctx, id, title)
}

func (h *Hybrid) SetNoteBodyHTML(ctx context.Context, id, bodyHTML string) error {
	return h.osa.SetNoteBodyHTML(ctx, id, bodyHTML)
}

func (h *Hybrid) AppendNoteBodyHTML(ctx context.Context, id, bodyHTML string) error {
	return h.osa.AppendNoteBodyHTML(ctx, id, bodyHTML)
}

func (h *Hybrid) DeleteNote(ctx context.Context, id string) error {
	return h.osa.DeleteNote(ctx, id)
}

func (h *Hybrid) MoveNote(ctx context.Context, id, account string, folderPath []string) error {
	return h.osa.MoveNote(ctx, id, account, folderPath)
}

func (h *Hybrid) CreateFolder(ctx context.Context, account string, parentPath []string, name string) (string, error) {
	return h.osa.CreateFolder(ctx, account, parentPath, name)
}

func (h *Hybrid) RenameFolder(ctx context.Context, account string, folderPath []string, name string) error {
	return h.osa.RenameFolder(ctx, account, folderPath, name)
}

func (h *Hybrid) DeleteFolder(ctx context.Context, account string, folderPath []string) error {
	return h.osa.DeleteFolder(ctx, account, folderPath)
}
