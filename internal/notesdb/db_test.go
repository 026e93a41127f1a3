package notesdb

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/coredata"
)

// newTestStore builds a throwaway database with the minimal NoteStore
// schema and returns its path.
func newTestStore(t *testing.T) (string, *sql.DB) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "NoteStore.sqlite")
	db, err := sql.Open("sqlite", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	for _, stmt := range []string{
		`CREATE TABLE Z_METADATA (Z_VERSION INTEGER PRIMARY KEY, Z_UUID VARCHAR(255), Z_PLIST BLOB)`,
		`INSERT INTO Z_METADATA(Z_VERSION, Z_UUID) VALUES (1, 'UUID')`,
		`CREATE TABLE ZICCLOUDSYNCINGOBJECT (
			Z_PK INTEGER PRIMARY KEY, Z_ENT INTEGER,
			ZNAME VARCHAR, ZTITLE1 VARCHAR, ZTITLE2 VARCHAR,
			ZFOLDER INTEGER, ZPARENT INTEGER, ZACCOUNT8 INTEGER,
			ZMARKEDFORDELETION INTEGER,
			ZCREATIONDATE1 REAL, ZCREATIONDATE2 REAL, ZCREATIONDATE3 REAL,
			ZMODIFICATIONDATE1 REAL, ZMODIFICATIONDATEATIMPORT REAL
		)`,
		`CREATE TABLE ZICNOTEDATA (Z_PK INTEGER PRIMARY KEY, ZNOTE INTEGER, ZDATA BLOB)`,

		// account
		`INSERT INTO ZICCLOUDSYNCINGOBJECT(Z_PK, Z_ENT, ZNAME) VALUES (1, 14, 'iCloud')`,

		// folders: Personal > Archive
		`INSERT INTO ZICCLOUDSYNCINGOBJECT(Z_PK, Z_ENT, ZNAME, ZPARENT, ZACCOUNT8) VALUES (10, 15, 'Personal', NULL, 1)`,
		`INSERT INTO ZICCLOUDSYNCINGOBJECT(Z_PK, Z_ENT, ZNAME, ZPARENT, ZACCOUNT8) VALUES (11, 15, 'Archive', 10, 1)`,

		// notes
		`INSERT INTO ZICCLOUDSYNCINGOBJECT(Z_PK, Z_ENT, ZTITLE1, ZFOLDER, ZMARKEDFORDELETION, ZCREATIONDATE1, ZMODIFICATIONDATE1) VALUES (20, 12, 'A', 10, 0, 100.0, 200.0)`,
		`INSERT INTO ZICCLOUDSYNCINGOBJECT(Z_PK, Z_ENT, ZTITLE1, ZFOLDER, ZMARKEDFORDELETION) VALUES (21, 12, 'B', 11, 0)`,
		`INSERT INTO ZICCLOUDSYNCINGOBJECT(Z_PK, Z_ENT, ZTITLE1, ZFOLDER, ZMARKEDFORDELETION) VALUES (22, 12, 'Deleted', 11, 1)`,

		`INSERT INTO ZICNOTEDATA(Z_PK, ZNOTE, ZDATA) VALUES (1, 20, X'48656C6C6F')`, // "Hello"
	} {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
	return path, db
}

func TestStore_ListsAccountsFoldersAndNotes(t *testing.T) {
	path, _ := newTestStore(t)
	ctx := context.Background()

	store, err := Open(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, "UUID", store.StoreUUID())

	accounts, err := store.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "iCloud", accounts[0].Name)

	folders, err := store.ListFolders(ctx, "iCloud")
	require.NoError(t, err)
	require.Len(t, folders, 2)
	assert.Equal(t, "Personal", folders[0].PathString())
	assert.Equal(t, "Personal > Archive", folders[1].PathString())
	assert.Equal(t, "x-coredata://UUID/ICFolder/p10", folders[0].ID)

	notes, err := store.ListNotes(ctx, "iCloud")
	require.NoError(t, err)
	require.Len(t, notes, 2, "marked-for-deletion notes must be excluded")

	inArchive, err := store.ListNotesInFolder(ctx, "iCloud", []string{"Personal", "Archive"})
	require.NoError(t, err)
	require.Len(t, inArchive, 1)
	assert.Equal(t, "B", inArchive[0].Title)
	pk, err := coredata.ParsePK(inArchive[0].ID)
	require.NoError(t, err)
	assert.Equal(t, int64(21), pk)
}

func TestStore_UnknownAccount(t *testing.T) {
	path, _ := newTestStore(t)
	ctx := context.Background()

	store, err := Open(ctx, path)
	require.NoError(t, err)

	_, err = store.ListFolders(ctx, "Nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestNoteDatesAndData(t *testing.T) {
	path, db := newTestStore(t)
	ctx := context.Background()

	store, err := Open(ctx, path)
	require.NoError(t, err)
	_ = store

	created, modified, err := NoteDates(ctx, db, 20)
	require.NoError(t, err)
	assert.Equal(t, coredata.FromAppleSeconds(100), created)
	assert.Equal(t, coredata.FromAppleSeconds(200), modified)

	// Note 21 has no date columns at all: epoch creation, modified =
	// created.
	created, modified, err = NoteDates(ctx, db, 21)
	require.NoError(t, err)
	assert.Equal(t, coredata.FromAppleSeconds(0), created)
	assert.Equal(t, created, modified)

	data, err := NoteData(ctx, db, 20)
	require.NoError(t, err)
	assert.Equal(t, []byte("Hello"), data)

	// No data row is empty content, not an error.
	data, err = NoteData(ctx, db, 21)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFolderPath_Tree(t *testing.T) {
	pk := func(v int64) *int64 { return &v }
	byPK := map[int64]folderRow{
		1: {pk: 1, name: "Root"},
		2: {pk: 2, name: "Mid", parentPK: pk(1)},
		3: {pk: 3, name: "Leaf", parentPK: pk(2)},
	}

	path, err := folderPath(byPK, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Root", "Mid", "Leaf"}, path)
}

func TestFolderPath_CycleFailsDeterministically(t *testing.T) {
	pk := func(v int64) *int64 { return &v }
	byPK := map[int64]folderRow{
		1: {pk: 1, name: "A", parentPK: pk(2)},
		2: {pk: 2, name: "B", parentPK: pk(1)},
	}

	_, err := folderPath(byPK, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrFolderCycle)
	assert.Contains(t, err.Error(), "pk 1")
}

func TestFolderPath_DanglingParentTruncates(t *testing.T) {
	pk := func(v int64) *int64 { return &v }
	byPK := map[int64]folderRow{
		5: {pk: 5, name: "Orphan", parentPK: pk(999)},
	}

	path, err := folderPath(byPK, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"Orphan"}, path)
}

func TestFolderPath_UnknownStart(t *testing.T) {
	_, err := folderPath(map[int64]folderRow{}, 7)
	require.Error(t, err)
	assert.ErrorIs(t, err, common.ErrNotFound)
}
