package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/flagx"
	"github.com/JaviSoto/apple-notes-cli/internal/models"
	"github.com/JaviSoto/apple-notes-cli/internal/render"
)

func (a *App) runNotes(ctx context.Context, pos []string, args []string) error {
	if len(pos) == 0 {
		return fmt.Errorf("usage: notes <list|show|create|rename|set-body|append|move|delete>: %w", common.ErrBadConfig)
	}

	switch pos[0] {
	case "list":
		return a.notesList(ctx, args)
	case "show":
		if len(pos) != 2 {
			return fmt.Errorf("usage: notes show <id>: %w", common.ErrBadConfig)
		}
		return a.notesShow(ctx, pos[1])
	case "create":
		if len(pos) != 3 {
			return fmt.Errorf("usage: notes create <folder-path> <title> [body flags]: %w", common.ErrBadConfig)
		}
		return a.notesCreate(ctx, pos[1], pos[2], args)
	case "rename":
		if len(pos) != 3 {
			return fmt.Errorf("usage: notes rename <id> <new-title>: %w", common.ErrBadConfig)
		}
		return a.b.SetNoteTitle(ctx, pos[1], pos[2])
	case "set-body":
		if len(pos) != 2 {
			return fmt.Errorf("usage: notes set-body <id> [body flags]: %w", common.ErrBadConfig)
		}
		return a.notesSetBody(ctx, pos[1], args, a.b.SetNoteBodyHTML)
	case "append":
		if len(pos) != 2 {
			return fmt.Errorf("usage: notes append <id> [body flags]: %w", common.ErrBadConfig)
		}
		return a.notesSetBody(ctx, pos[1], args, a.b.AppendNoteBodyHTML)
	case "move":
		if len(pos) != 3 {
			return fmt.Errorf("usage: notes move <id> <folder-path>: %w", common.ErrBadConfig)
		}
		return a.notesMove(ctx, pos[1], pos[2])
	case "delete":
		if len(pos) != 2 {
			return fmt.Errorf("usage: notes delete <id> -yes: %w", common.ErrBadConfig)
		}
		if !hasYes(args) {
			return fmt.Errorf("refusing to delete note %q without -yes: %w", pos[1], common.ErrBadConfig)
		}
		return a.b.DeleteNote(ctx, pos[1])
	default:
		return fmt.Errorf("unknown notes subcommand %q: %w", pos[0], common.ErrBadConfig)
	}
}

func (a *App) notesList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("notes list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	folder := fs.String("folder", "", "only notes in this folder path")
	query := fs.String("query", "", "only notes whose title contains this text")
	limit := fs.Int("limit", 0, "stop after this many notes")
	filtered := flagx.FilterArgs(args, []string{
		"-folder", "--folder", "-query", "--query", "-limit", "--limit",
	})
	if err := fs.Parse(filtered); err != nil {
		return err
	}

	var notes []models.NoteSummary
	var err error
	if *folder != "" {
		var segments []string
		segments, err = SplitFolderPath(*folder)
		if err != nil {
			return err
		}
		notes, err = a.b.ListNotesInFolder(ctx, a.cfg.Account, segments)
	} else {
		notes, err = a.b.ListNotes(ctx, a.cfg.Account)
	}
	if err != nil {
		return err
	}

	if *query != "" {
		q := strings.ToLower(*query)
		kept := notes[:0]
		for _, n := range notes {
			if strings.Contains(strings.ToLower(n.Title), q) {
				kept = append(kept, n)
			}
		}
		notes = kept
	}
	if *limit > 0 && len(notes) > *limit {
		notes = notes[:*limit]
	}

	if a.cfg.JSON {
		return printJSON(a.out, notes)
	}
	lines := make([]string, 0, len(notes))
	for _, n := range notes {
		lines = append(lines, n.ID+"\t"+n.Title)
	}
	printLines(a.out, lines)
	return nil
}

func (a *App) notesShow(ctx context.Context, id string) error {
	note, err := a.b.GetNote(ctx, id)
	if err != nil {
		return err
	}
	if a.cfg.JSON {
		return printJSON(a.out, note)
	}
	markdown, err := render.NoteToMarkdown(note)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, markdown)
	return nil
}

func (a *App) notesCreate(ctx context.Context, folderPath, title string, args []string) error {
	segments, err := SplitFolderPath(folderPath)
	if err != nil {
		return err
	}

	fs := flag.NewFlagSet("notes create", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var body bodyInput
	body.register(fs)
	if err := fs.Parse(flagx.FilterArgs(args, bodyFlagNames())); err != nil {
		return err
	}
	html, err := body.resolveHTML(a.in)
	if err != nil {
		return err
	}

	id, err := a.b.CreateNoteHTML(ctx, a.cfg.Account, segments, title, html)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func (a *App) notesSetBody(ctx context.Context, id string, args []string, apply func(context.Context, string, string) error) error {
	fs := flag.NewFlagSet("notes body", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var body bodyInput
	body.register(fs)
	if err := fs.Parse(flagx.FilterArgs(args, bodyFlagNames())); err != nil {
		return err
	}
	html, err := body.resolveHTML(a.in)
	if err != nil {
		return err
	}
	return apply(ctx, id, html)
}

func (a *App) notesMove(ctx context.Context, id, folderPath string) error {
	segments, err := SplitFolderPath(folderPath)
	if err != nil {
		return err
	}
	return a.b.MoveNote(ctx, id, a.cfg.Account, segments)
}
