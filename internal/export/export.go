package export

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/JaviSoto/apple-notes-cli/internal/backend"
	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/filex"
	"github.com/JaviSoto/apple-notes-cli/internal/logging"
	"github.com/JaviSoto/apple-notes-cli/internal/models"
	"github.com/JaviSoto/apple-notes-cli/internal/render"
)

const maxJobs = 16

// Options configures a single export run.
type Options struct {
	Account     string
	OutDir      string
	Jobs        int
	IncludeHTML bool
	Log         logging.Logger

	// OnNote fires once per exported note, from whichever goroutine
	// finished it.
	OnNote func(models.NoteSummary)
}

func (o *Options) normalize() error {
	if o.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1, got %d: %w", o.Jobs, common.ErrBadConfig)
	}
	if o.Jobs > maxJobs {
		o.Jobs = maxJobs
	}
	if o.Log == nil {
		o.Log = logging.NewNop()
	}
	return nil
}

func (o *Options) notify(n models.NoteSummary) {
	if o.OnNote != nil {
		o.OnNote(n)
	}
}

// Export runs the automation-bridge flavor: note bodies come back one at a
// time through the scripting channel, so fetching and rendering stay on
// the producer and only disk writes fan out. A note pointing at a folder
// missing from the index aborts the run.
func Export(ctx context.Context, b backend.Backend, opts Options) (int, error) {
	if err := opts.normalize(); err != nil {
		return 0, err
	}

	folders, err := b.ListFolders(ctx, opts.Account)
	if err != nil {
		return 0, err
	}
	index, err := NewFolderIndex(folders)
	if err != nil {
		return 0, err
	}

	var summaries []models.NoteSummary
	err = b.StreamNoteSummaries(ctx, opts.Account, nil, func(n models.NoteSummary) {
		summaries = append(summaries, n)
	})
	if err != nil {
		return 0, err
	}
	opts.Log.Info(ctx, "exporting notes", "account", opts.Account, "count", len(summaries), "jobs", opts.Jobs)

	if err := filex.EnsureDir(opts.OutDir); err != nil {
		return 0, err
	}

	if opts.Jobs == 1 {
		return exportSerial(ctx, b, index, summaries, opts)
	}
	return exportParallel(ctx, b, index, summaries, opts)
}

func exportSerial(ctx context.Context, b backend.Backend, index *FolderIndex, summaries []models.NoteSummary, opts Options) (int, error) {
	written := 0
	for _, s := range summaries {
		u, err := buildUnit(ctx, b, index, s, opts)
		if err != nil {
			return written, err
		}
		if err := writeUnit(u); err != nil {
			return written, err
		}
		written++
		opts.notify(s)
	}
	return written, nil
}

func exportParallel(ctx context.Context, b backend.Backend, index *FolderIndex, summaries []models.NoteSummary, opts Options) (int, error) {
	type task struct {
		unit    unit
		summary models.NoteSummary
	}

	// The queue is bounded so the producer cannot run arbitrarily far
	// ahead of slow disks.
	queue := make(chan task, 2*opts.Jobs)
	done := make(chan error, len(summaries))
	var stop atomic.Bool
	var written atomic.Int64

	var wg sync.WaitGroup
	for i := 0; i < opts.Jobs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range queue {
				if stop.Load() {
					done <- nil
					continue
				}
				err := writeUnit(t.unit)
				if err != nil {
					stop.Store(true)
				} else {
					written.Add(1)
					opts.notify(t.summary)
				}
				done <- err
			}
		}()
	}

	var firstErr error
	sent := 0
	for _, s := range summaries {
		if stop.Load() {
			break
		}
		u, err := buildUnit(ctx, b, index, s, opts)
		if err != nil {
			firstErr = err
			stop.Store(true)
			break
		}
		queue <- task{unit: u, summary: s}
		sent++
	}
	close(queue)

	// Every queued task answers exactly once; waiting for all of them
	// keeps partially written directories off the floor.
	for i := 0; i < sent; i++ {
		if err := <-done; err != nil && firstErr == nil {
			firstErr = err
		}
	}
	wg.Wait()

	return int(written.Load()), firstErr
}

func buildUnit(ctx context.Context, b backend.Backend, index *FolderIndex, s models.NoteSummary, opts Options) (unit, error) {
	note, err := b.GetNote(ctx, s.ID)
	if err != nil {
		return unit{}, fmt.Errorf("fetch note %s: %w", s.ID, err)
	}

	folderPath, ok := index.PathOf(note.FolderID)
	if !ok {
		return unit{}, fmt.Errorf("note %s references folder %s: %w", note.ID, note.FolderID, common.ErrUnknownFolder)
	}

	markdown, err := render.NoteToMarkdown(note)
	if err != nil {
		return unit{}, err
	}

	meta, err := metadataJSON(models.BackupNoteMetadata{
		ID:         note.ID,
		Title:      note.Title,
		Account:    opts.Account,
		FolderPath: folderPath,
		CreatedAt:  note.CreatedAt,
		ModifiedAt: note.ModifiedAt,
	})
	if err != nil {
		return unit{}, err
	}

	u := unit{
		dir:      noteDir(opts.OutDir, folderPath, note.Title, note.ID),
		metadata: meta,
		markdown: markdown,
	}
	if opts.IncludeHTML {
		u.html = note.BodyHTML
		u.hasHTML = true
	}
	return u, nil
}
