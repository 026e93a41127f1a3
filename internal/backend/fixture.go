package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/models"
)

// FixtureData is the on-disk shape of a fixture file. Keys of the
// per-account maps are account names; notes are keyed by note id.
type FixtureData struct {
	Accounts               []models.Account                `json:"accounts"`
	FoldersByAccount       map[string][]models.Folder      `json:"folders_by_account"`
	NoteSummariesByAccount map[string][]models.NoteSummary `json:"note_summaries_by_account"`
	NotesByID              map[string]models.Note          `json:"notes_by_id"`
}

// Fixture is an in-memory backend loaded from a JSON file. It exists for
// tests and for exercising the tool on machines without a Notes library;
// mutations apply to memory only and are lost on exit.
type Fixture struct {
	mu   sync.Mutex
	data FixtureData
}

func NewFixture(data FixtureData) *Fixture {
	if data.FoldersByAccount == nil {
		data.FoldersByAccount = map[string][]models.Folder{}
	}
	if data.NoteSummariesByAccount == nil {
		data.NoteSummariesByAccount = map[string][]models.NoteSummary{}
	}
	if data.NotesByID == nil {
		data.NotesByID = map[string]models.Note{}
	}
	return &Fixture{data: data}
}

func NewFixtureFromFile(path string) (*Fixture, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var data FixtureData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return NewFixture(data), nil
}

func (f *Fixture) ListAccounts(ctx context.Context) ([]models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.data.Accounts), nil
}

func (f *Fixture) ListFolders(ctx context.Context, account string) ([]models.Folder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	folders, ok := f.data.FoldersByAccount[account]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", account, common.ErrNotFound)
	}
	return slices.Clone(folders), nil
}

func (f *Fixture) ListNotes(ctx context.Context, account string) ([]models.NoteSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	notes, ok := f.data.NoteSummariesByAccount[account]
	if !ok {
		return nil, fmt.Errorf("account %q: %w", account, common.ErrNotFound)
	}
	return slices.Clone(notes), nil
}

func (f *Fixture) ListNotesInFolder(ctx context.Context, account string, folderPath []string) ([]models.NoteSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	folder, err := f.folderByPath(account, folderPath)
	if err != nil {
		return nil, err
	}
	var out []models.NoteSummary
	for _, n := range f.data.NoteSummariesByAccount[account] {
		if n.FolderID == folder.ID {
			out = append(out, n)
		}
	}
	return out, nil
}

// StreamNoteSummaries emits in id order so runs are deterministic.
func (f *Fixture) StreamNoteSummaries(ctx context.Context, account string, folderPath []string, onNote func(models.NoteSummary)) error {
	var (
		notes []models.NoteSummary
		err   error
	)
	if folderPath != nil {
		notes, err = f.ListNotesInFolder(ctx, account, folderPath)
	} else {
		notes, err = f.ListNotes(ctx, account)
	}
	if err != nil {
		return err
	}
	slices.SortFunc(notes, func(a, b models.NoteSummary) int {
		return strings.Compare(a.ID, b.ID)
	})
	for _, n := range notes {
		onNote(n)
	}
	return nil
}

func (f *Fixture) GetNote(ctx context.Context, id string) (models.Note, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.data.NotesByID[id]
	if !ok {
		return models.Note{}, fmt.Errorf("note %q: %w", id, common.ErrNotFound)
	}
	return n, nil
}

func (f *Fixture) CreateNoteHTML(ctx context.Context, account string, folderPath []string, title, bodyHTML string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	folder, err := f.folderByPath(account, folderPath)
	if err != nil {
		return "", err
	}
	id := "x-coredata://fixture/ICNote/" + uuid.NewString()
	now := time.Now().UTC()
	f.data.NotesByID[id] = models.Note{
		ID:         id,
		Title:      title,
		FolderID:   folder.ID,
		CreatedAt:  now,
		ModifiedAt: now,
		BodyHTML:   bodyHTML,
	}
	f.data.NoteSummariesByAccount[account] = append(f.data.NoteSummariesByAccount[account],
		models.NoteSummary{ID: id, Title: title, FolderID: folder.ID})
	return id, nil
}

func (f *Fixture) SetNoteTitle(ctx context.Context, id, title string) error {
	return f.updateNote(id, func(n *models.Note) {
		n.Title = title
	})
}

func (f *Fixture) SetNoteBodyHTML(ctx context.Context, id, bodyHTML string) error {
	return f.updateNote(id, func(n *models.Note) {
		n.BodyHTML = bodyHTML
	})
}

func (f *Fixture) AppendNoteBodyHTML(ctx context.Context, id, bodyHTML string) error {
	return f.updateNote(id, func(n *models.Note) {
		n.BodyHTML += bodyHTML
	})
}

func (f *Fixture) DeleteNote(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.data.NotesByID[id]; !ok {
		return fmt.Errorf("note %q: %w", id, common.ErrNotFound)
	}
	delete(f.data.NotesByID, id)
	for account, notes := range f.data.NoteSummariesByAccount {
		f.data.NoteSummariesByAccount[account] = slices.DeleteFunc(notes, func(n models.NoteSummary) bool {
			return n.ID == id
		})
	}
	return nil
}

func (f *Fixture) MoveNote(ctx context.Context, id, account string, folderPath []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	folder, err := f.folderByPath(account, folderPath)
	if err != nil {
		return err
	}
	n, ok := f.data.NotesByID[id]
	if !ok {
		return fmt.Errorf("note %q: %w", id, common.ErrNotFound)
	}
	n.FolderID = folder.ID
	f.data.NotesByID[id] = n
	summaries := f.data.NoteSummariesByAccount[account]
	for i := range summaries {
		if summaries[i].ID == id {
			summaries[i].FolderID = folder.ID
		}
	}
	return nil
}

func (f *Fixture) CreateFolder(ctx context.Context, account string, parentPath []string, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var parentSegs []string
	if len(parentPath) > 0 {
		parent, err := f.folderByPath(account, parentPath)
		if err != nil {
			return "", err
		}
		parentSegs = parent.Path
	}
	id := "x-coredata://fixture/ICFolder/" + uuid.NewString()
	f.data.FoldersByAccount[account] = append(f.data.FoldersByAccount[account], models.Folder{
		ID:      id,
		Name:    name,
		Account: account,
		Path:    append(slices.Clone(parentSegs), name),
	})
	return id, nil
}

func (f *Fixture) RenameFolder(ctx context.Context, account string, folderPath []string, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	folder, err := f.folderByPath(account, folderPath)
	if err != nil {
		return err
	}
	folders := f.data.FoldersByAccount[account]
	for i := range folders {
		if folders[i].ID == folder.ID {
			folders[i].Name = name
			folders[i].Path[len(folders[i].Path)-1] = name
		}
	}
	return nil
}

func (f *Fixture) DeleteFolder(ctx context.Context, account string, folderPath []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	folder, err := f.folderByPath(account, folderPath)
	if err != nil {
		return err
	}
	f.data.FoldersByAccount[account] = slices.DeleteFunc(f.data.FoldersByAccount[account], func(fl models.Folder) bool {
		return fl.ID == folder.ID
	})
	return nil
}

// folderByPath requires f.mu held.
func (f *Fixture) folderByPath(account string, path []string) (models.Folder, error) {
	folders, ok := f.data.FoldersByAccount[account]
	if !ok {
		return models.Folder{}, fmt.Errorf("account %q: %w", account, common.ErrNotFound)
	}
	for _, folder := range folders {
		if slices.Equal(folder.Path, path) {
			return folder, nil
		}
	}
	return models.Folder{}, fmt.Errorf("folder %q in account %q: %w",
		strings.Join(path, " > "), account, common.ErrNotFound)
}

func (f *Fixture) updateNote(id string, fn func(*models.Note)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.data.NotesByID[id]
	if !ok {
		return fmt.Errorf("note %q: %w", id, common.ErrNotFound)
	}
	fn(&n)
	f.data.NotesByID[id] = n
	for account, summaries := range f.data.NoteSummariesByAccount {
		for i := range summaries {
			if summaries[i].ID == id {
				summaries[i].Title = n.Title
			}
		}
		f.data.NoteSummariesByAccount[account] = summaries
	}
	return nil
}
