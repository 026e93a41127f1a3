package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sync/atomic"

	"github.com/JaviSoto/apple-notes-cli/internal/backend"
	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/export"
	"github.com/JaviSoto/apple-notes-cli/internal/flagx"
	"github.com/JaviSoto/apple-notes-cli/internal/models"
)

func (a *App) runExport(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	out := fs.String("out", "", "destination directory")
	jobs := fs.Int("jobs", 4, "number of parallel workers")
	includeHTML := fs.Bool("html", false, "also write contents.html per note")
	filtered := flagx.FilterArgs(args, []string{
		"-out", "--out", "-jobs", "--jobs", "-html", "--html",
	})
	if err := fs.Parse(filtered); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("export needs -out: %w", common.ErrBadConfig)
	}

	opts := export.Options{
		Account:     a.cfg.Account,
		OutDir:      *out,
		Jobs:        *jobs,
		IncludeHTML: *includeHTML,
		Log:         a.log,
	}

	var exported atomic.Int64
	if a.cfg.ShowProgress {
		opts.OnNote = func(n models.NoteSummary) {
			fmt.Fprintf(a.errOut, "\rexported %d notes", exported.Add(1))
		}
	}

	count, err := a.export(ctx, opts)
	if a.cfg.ShowProgress && exported.Load() > 0 {
		fmt.Fprintln(a.errOut)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "exported %d notes to %s\n", count, *out)
	return nil
}

// export picks the pipeline flavor: accounts backed by the on-disk store
// fan the whole pipeline out per worker, everything else goes through the
// serial automation bridge with parallel writes.
func (a *App) export(ctx context.Context, opts export.Options) (int, error) {
	if h, ok := a.b.(*backend.Hybrid); ok {
		var html export.HTMLSource
		if opts.IncludeHTML {
			html = h
		}
		return export.ExportFromStore(ctx, h.Store(), html, opts)
	}
	return export.Export(ctx, a.b, opts)
}
