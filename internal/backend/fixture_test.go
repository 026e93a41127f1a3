package backend

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/models"
)

const fixtureJSON = `{
  "accounts": [{"name": "iCloud"}],
  "folders_by_account": {
    "iCloud": [
      {"id": "f1", "name": "Personal", "account": "iCloud", "path": ["Personal"]},
      {"id": "f2", "name": "Archive", "account": "iCloud", "path": ["Personal", "Archive"]}
    ]
  },
  "note_summaries_by_account": {
    "iCloud": [
      {"id": "n2", "title": "Second", "folder_id": "f2"},
      {"id": "n1", "title": "First", "folder_id": "f1"}
    ]
  },
  "notes_by_id": {
    "n1": {
      "id": "n1", "title": "First", "folder_id": "f1",
      "created_at": "2024-01-02T03:04:05Z",
      "modified_at": "2024-01-03T03:04:05Z",
      "body_html": "<div>First</div>"
    },
    "n2": {
      "id": "n2", "title": "Second", "folder_id": "f2",
      "created_at": "2024-02-02T03:04:05Z",
      "modified_at": "2024-02-03T03:04:05Z",
      "body_html": "<div>Second</div>"
    }
  }
}`

func newTestFixture(t *testing.T) *Fixture {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(fixtureJSON), 0o644))
	f, err := NewFixtureFromFile(path)
	require.NoError(t, err)
	return f
}

func TestFixture_Listings(t *testing.T) {
	ctx := context.Background()
	f := newTestFixture(t)

	accounts, err := f.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Account{{Name: "iCloud"}}, accounts)

	folders, err := f.ListFolders(ctx, "iCloud")
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Personal > Archive", folders[1].PathString())

	notes, err := f.ListNotesInFolder(ctx, "iCloud", []string{"Personal", "Archive"})
	require.NoError(t, err)
	require.Len(t, notes, 1)
	assert.Equal(t, "n2", notes[0].ID)

	_, err = f.ListFolders(ctx, "Work")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFixture_StreamOrderIsDeterministic(t *testing.T) {
	f := newTestFixture(t)

	var got []string
	err := f.StreamNoteSummaries(context.Background(), "iCloud", nil, func(n models.NoteSummary) {
		got = append(got, n.ID)
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"n1", "n2"}, got)
}

func TestFixture_GetNote(t *testing.T) {
	ctx := context.Background()
	f := newTestFixture(t)

	n, err := f.GetNote(ctx, "n1")
	require.NoError(t, err)
	assert.Equal(t, "First", n.Title)
	assert.Equal(t, "<div>First</div>", n.BodyHTML)

	_, err = f.GetNote(ctx, "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFixture_CreateAndMutateNote(t *testing.T) {
	ctx := context.Background()
	f := newTestFixture(t)

	id, err := f.CreateNoteHTML(ctx, "iCloud", []string{"Personal"}, "New", "<div>Body</div>")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	n, err := f.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "New", n.Title)
	assert.Equal(t, "f1", n.FolderID)

	require.NoError(t, f.SetNoteTitle(ctx, id, "Renamed"))
	require.NoError(t, f.AppendNoteBodyHTML(ctx, id, "<div>More</div>"))
	n, err = f.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", n.Title)
	assert.Equal(t, "<div>Body</div><div>More</div>", n.BodyHTML)

	require.NoError(t, f.MoveNote(ctx, id, "iCloud", []string{"Personal", "Archive"}))
	n, err = f.GetNote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "f2", n.FolderID)

	require.NoError(t, f.DeleteNote(ctx, id))
	_, err = f.GetNote(ctx, id)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestFixture_FolderOps(t *testing.T) {
	ctx := context.Background()
	f := newTestFixture(t)

	id, err := f.CreateFolder(ctx, "iCloud", []string{"Personal"}, "Drafts")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	folders, err := f.ListFolders(ctx, "iCloud")
	require.NoError(t, err)
	require.Len(t, folders, 3)
	assert.Equal(t, "Personal > Drafts", folders[2].PathString())

	require.NoError(t, f.RenameFolder(ctx, "iCloud", []string{"Personal", "Drafts"}, "Ideas"))
	folders, err = f.ListFolders(ctx, "iCloud")
	require.NoError(t, err)
	assert.Equal(t, "Personal > Ideas", folders[2].PathString())

	require.NoError(t, f.DeleteFolder(ctx, "iCloud", []string{"Personal", "Ideas"}))
	folders, err = f.ListFolders(ctx, "iCloud")
	require.NoError(t, err)
	assert.Len(t, folders, 2)

	err = f.DeleteFolder(ctx, "iCloud", []string{"Nope"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}
