// Package notesdb reads the Notes application's Core Data store
// (NoteStore.sqlite) directly. All access is read-only; the store belongs
// to the application and is never mutated here.
//
// The entity/column names are schema-specific and undocumented; the
// constants below are the stable subset this tool relies on.
package notesdb

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/coredata"
	"github.com/JaviSoto/apple-notes-cli/internal/dbx"
	"github.com/JaviSoto/apple-notes-cli/internal/models"
)

// Core Data entity ids inside ZICCLOUDSYNCINGOBJECT.
const (
	entAccount = 14
	entFolder  = 15
	entNote    = 12
)

// Store describes one Notes database. It holds the path and the store
// UUID; every read opens its own handle, so a Store can be shared freely
// while the handles never are.
type Store struct {
	path      string
	storeUUID string
}

// Open probes the database at path and reads its store UUID.
func Open(ctx context.Context, path string) (*Store, error) {
	conn, err := openReadOnly(path)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	var storeUUID string
	err = conn.QueryRowContext(ctx,
		`SELECT Z_UUID FROM Z_METADATA WHERE Z_VERSION = 1`).Scan(&storeUUID)
	if err != nil {
		return nil, fmt.Errorf("read Z_METADATA from %s: %w", path, err)
	}
	return &Store{path: path, storeUUID: storeUUID}, nil
}

// OpenDefault opens the Notes store at its standard location under the
// user's home directory.
func OpenDefault(ctx context.Context) (*Store, error) {
	home, ok := os.LookupEnv("HOME")
	if !ok || home == "" {
		return nil, fmt.Errorf("HOME not set, cannot locate Notes database")
	}
	path := filepath.Join(home,
		"Library", "Group Containers", "group.com.apple.notes", "NoteStore.sqlite")
	return Open(ctx, path)
}

// StoreUUID returns the unique id of this store instance, embedded in
// every opaque record id.
func (s *Store) StoreUUID() string { return s.storeUUID }

// Conn opens a fresh independent read-only handle. Export workers use one
// handle each; handles are never shared across goroutines.
func (s *Store) Conn() (*sql.DB, error) {
	return openReadOnly(s.path)
}

func openReadOnly(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("open notes db %s: %w", path, err)
	}
	return db, nil
}

// ListAccounts returns every account in the store, sorted by name.
func (s *Store) ListAccounts(ctx context.Context) ([]models.Account, error) {
	conn, err := s.Conn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx,
		`SELECT ZNAME FROM ZICCLOUDSYNCINGOBJECT WHERE Z_ENT = ? ORDER BY ZNAME`,
		entAccount)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []models.Account
	for rows.Next() {
		var a models.Account
		if err := rows.Scan(&a.Name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// ListFolders returns every folder of the account with its resolved
// root-to-leaf path, sorted by path.
func (s *Store) ListFolders(ctx context.Context, account string) ([]models.Folder, error) {
	conn, err := s.Conn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	accountPK, err := accountPK(ctx, conn, account)
	if err != nil {
		return nil, err
	}
	byPK, err := folderRows(ctx, conn, accountPK)
	if err != nil {
		return nil, err
	}

	out := make([]models.Folder, 0, len(byPK))
	for pk := range byPK {
		path, err := folderPath(byPK, pk)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Folder{
			ID:      coredata.FolderID(s.storeUUID, pk),
			Name:    byPK[pk].name,
			Account: account,
			Path:    path,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PathString() < out[j].PathString()
	})
	return out, nil
}

// ListNotes returns summaries for every live note in the account.
func (s *Store) ListNotes(ctx context.Context, account string) ([]models.NoteSummary, error) {
	conn, err := s.Conn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	accountPK, err := accountPK(ctx, conn, account)
	if err != nil {
		return nil, err
	}

	rows, err := conn.QueryContext(ctx, `
SELECT n.Z_PK, n.ZTITLE1, n.ZFOLDER
FROM ZICCLOUDSYNCINGOBJECT n
JOIN ZICCLOUDSYNCINGOBJECT f ON f.Z_PK = n.ZFOLDER
WHERE n.Z_ENT = ?
  AND IFNULL(n.ZMARKEDFORDELETION, 0) = 0
  AND f.Z_ENT = ?
  AND f.ZACCOUNT8 = ?
`, entNote, entFolder, accountPK)
	if err != nil {
		return nil, fmt.Errorf("list notes for %s: %w", account, err)
	}
	defer rows.Close()

	return s.scanSummaries(rows)
}

// ListNotesInFolder returns summaries for the folder addressed by its full
// path.
func (s *Store) ListNotesInFolder(ctx context.Context, account string, folderPath []string) ([]models.NoteSummary, error) {
	folders, err := s.ListFolders(ctx, account)
	if err != nil {
		return nil, err
	}
	want := models.Folder{Path: folderPath}.PathString()
	var folderID string
	for _, f := range folders {
		if f.PathString() == want {
			folderID = f.ID
			break
		}
	}
	if folderID == "" {
		return nil, fmt.Errorf("folder %s: %w", want, common.ErrNotFound)
	}
	folderPK, err := coredata.ParsePK(folderID)
	if err != nil {
		return nil, err
	}

	conn, err := s.Conn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, `
SELECT Z_PK, ZTITLE1, ZFOLDER
FROM ZICCLOUDSYNCINGOBJECT
WHERE Z_ENT = ?
  AND IFNULL(ZMARKEDFORDELETION, 0) = 0
  AND ZFOLDER = ?
`, entNote, folderPK)
	if err != nil {
		return nil, fmt.Errorf("list notes in %s: %w", want, err)
	}
	defer rows.Close()

	return s.scanSummaries(rows)
}

func (s *Store) scanSummaries(rows *sql.Rows) ([]models.NoteSummary, error) {
	var out []models.NoteSummary
	for rows.Next() {
		var (
			pk       int64
			title    sql.NullString
			folderPK int64
		)
		if err := rows.Scan(&pk, &title, &folderPK); err != nil {
			return nil, err
		}
		name := title.String
		if !title.Valid || name == "" {
			name = "Untitled"
		}
		out = append(out, models.NoteSummary{
			ID:       coredata.NoteID(s.storeUUID, pk),
			Title:    name,
			FolderID: coredata.FolderID(s.storeUUID, folderPK),
		})
	}
	return out, rows.Err()
}

// NoteDates reads the raw timestamp columns for one note and resolves them
// through the fallback chain.
func NoteDates(ctx context.Context, q dbx.DBTX, notePK int64) (created, modified time.Time, err error) {
	var c1, c2, c3, m1, m2 sql.NullFloat64
	err = q.QueryRowContext(ctx, `
SELECT ZCREATIONDATE1, ZCREATIONDATE2, ZCREATIONDATE3,
       ZMODIFICATIONDATE1, ZMODIFICATIONDATEATIMPORT
FROM ZICCLOUDSYNCINGOBJECT
WHERE Z_ENT = ? AND Z_PK = ?
`, entNote, notePK).Scan(&c1, &c2, &c3, &m1, &m2)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("read note dates for pk %d: %w", notePK, err)
	}
	created, modified = coredata.NoteDates(
		nullFloat(c1), nullFloat(c2), nullFloat(c3), nullFloat(m1), nullFloat(m2))
	return created, modified, nil
}

// NoteData reads the raw content blob for one note. A note without a data
// row yields an empty slice, not an error.
func NoteData(ctx context.Context, q dbx.DBTX, notePK int64) ([]byte, error) {
	var data []byte
	err := q.QueryRowContext(ctx,
		`SELECT ZDATA FROM ZICNOTEDATA WHERE ZNOTE = ? LIMIT 1`, notePK).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read ZICNOTEDATA.ZDATA for note pk %d: %w", notePK, err)
	}
	return data, nil
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}

func accountPK(ctx context.Context, q dbx.DBTX, account string) (int64, error) {
	var pk int64
	err := q.QueryRowContext(ctx,
		`SELECT Z_PK FROM ZICCLOUDSYNCINGOBJECT WHERE Z_ENT = ? AND ZNAME = ?`,
		entAccount, account).Scan(&pk)
	if err == sql.ErrNoRows {
		return 0, fmt.Errorf("account %s: %w", account, common.ErrNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("look up account %s: %w", account, err)
	}
	return pk, nil
}
