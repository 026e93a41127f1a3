package export

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/coredata"
	"github.com/JaviSoto/apple-notes-cli/internal/filex"
	"github.com/JaviSoto/apple-notes-cli/internal/models"
	"github.com/JaviSoto/apple-notes-cli/internal/notesdb"
	"github.com/JaviSoto/apple-notes-cli/internal/notetext"
	"github.com/JaviSoto/apple-notes-cli/internal/render"
)

// HTMLSource fetches rendered note bodies. The on-disk store only holds
// the raw blobs, so HTML has to come from the running application.
type HTMLSource interface {
	GetNote(ctx context.Context, id string) (models.Note, error)
}

// unknownFolder is where notes land when their folder row is missing from
// the store, which happens on partially synced libraries.
var unknownFolder = []string{"Unknown"}

type dbTask struct {
	summary    models.NoteSummary
	pk         int64
	folderPath []string
	html       string
}

// ExportFromStore runs the direct-store flavor: every worker owns a
// read-only connection and runs the whole fetch-decode-write pipeline, so
// jobs scale with disk and CPU instead of the scripting channel. html may
// be nil unless opts.IncludeHTML is set.
func ExportFromStore(ctx context.Context, store *notesdb.Store, html HTMLSource, opts Options) (int, error) {
	if err := opts.normalize(); err != nil {
		return 0, err
	}
	if opts.IncludeHTML && html == nil {
		return 0, fmt.Errorf("html export needs the automation bridge: %w", common.ErrBadConfig)
	}

	folders, err := store.ListFolders(ctx, opts.Account)
	if err != nil {
		return 0, err
	}
	index, err := NewFolderIndex(folders)
	if err != nil {
		return 0, err
	}

	summaries, err := store.ListNotes(ctx, opts.Account)
	if err != nil {
		return 0, err
	}
	opts.Log.Info(ctx, "exporting notes from store", "account", opts.Account, "count", len(summaries), "jobs", opts.Jobs)

	if err := filex.EnsureDir(opts.OutDir); err != nil {
		return 0, err
	}

	queue := make(chan dbTask, 2*opts.Jobs)
	done := make(chan error, len(summaries))
	var stop atomic.Bool
	var written atomic.Int64

	var wg sync.WaitGroup
	workerErrs := make([]error, opts.Jobs)
	for i := 0; i < opts.Jobs; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			conn, err := store.Conn()
			if err != nil {
				workerErrs[slot] = err
				stop.Store(true)
				for range queue {
					done <- nil
				}
				return
			}
			defer conn.Close()

			for t := range queue {
				if stop.Load() {
					done <- nil
					continue
				}
				err := exportStoreNote(ctx, conn, t, opts)
				if err != nil {
					stop.Store(true)
				} else {
					written.Add(1)
					opts.notify(t.summary)
				}
				done <- err
			}
		}(i)
	}

	var firstErr error
	sent := 0
	for _, s := range summaries {
		if stop.Load() {
			break
		}
		t, err := prepareStoreTask(ctx, index, html, s, opts)
		if err != nil {
			firstErr = err
			stop.Store(true)
			break
		}
		queue <- t
		sent++
	}
	close(queue)

	for i := 0; i < sent; i++ {
		if err := <-done; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	wg.Wait()

	if firstErr == nil {
		for _, err := range workerErrs {
			if err != nil {
				firstErr = err
				break
			}
		}
	}
	return int(written.Load()), firstErr
}

func prepareStoreTask(ctx context.Context, index *FolderIndex, html HTMLSource, s models.NoteSummary, opts Options) (dbTask, error) {
	pk, err := coredata.ParsePK(s.ID)
	if err != nil {
		return dbTask{}, fmt.Errorf("note %s: %w", s.ID, err)
	}

	folderPath, ok := index.PathOf(s.FolderID)
	if !ok {
		folderPath = unknownFolder
	}

	t := dbTask{summary: s, pk: pk, folderPath: folderPath}
	if opts.IncludeHTML {
		// The bridge is serial, so HTML stays on the producer.
		note, err := html.GetNote(ctx, s.ID)
		if err != nil {
			return dbTask{}, fmt.Errorf("fetch html for note %s: %w", s.ID, err)
		}
		t.html = note.BodyHTML
	}
	return t, nil
}

func exportStoreNote(ctx context.Context, conn *sql.DB, t dbTask, opts Options) error {
	data, err := notesdb.NoteData(ctx, conn, t.pk)
	if err != nil {
		return fmt.Errorf("read data for note %s: %w", t.summary.ID, err)
	}

	// Any decode failure (undecodable content, corrupt compression)
	// degrades to an empty body; one broken blob must not sink the run.
	var text string
	if len(data) > 0 {
		text, err = notetext.Decode(data)
	}
	if err != nil {
		opts.Log.Warn(ctx, "could not extract text from note, exporting empty body",
			"note", t.summary.ID, "title", t.summary.Title, "err", err)
		text = ""
	}

	created, modified, err := notesdb.NoteDates(ctx, conn, t.pk)
	if err != nil {
		return fmt.Errorf("read dates for note %s: %w", t.summary.ID, err)
	}

	meta, err := metadataJSON(models.BackupNoteMetadata{
		ID:         t.summary.ID,
		Title:      t.summary.Title,
		Account:    opts.Account,
		FolderPath: t.folderPath,
		CreatedAt:  created,
		ModifiedAt: modified,
	})
	if err != nil {
		return err
	}

	u := unit{
		dir:      noteDir(opts.OutDir, t.folderPath, t.summary.Title, t.summary.ID),
		metadata: meta,
		markdown: render.TitledMarkdown(t.summary.Title, text),
	}
	if opts.IncludeHTML {
		u.html = t.html
		u.hasHTML = true
	}
	return writeUnit(u)
}
