package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/flagx"
)

func (a *App) runFolders(ctx context.Context, pos []string, args []string) error {
	if len(pos) == 0 {
		return fmt.Errorf("usage: folders <list|create|rename|delete>: %w", common.ErrBadConfig)
	}

	switch pos[0] {
	case "list":
		return a.foldersList(ctx, args)
	case "create":
		if len(pos) != 2 {
			return fmt.Errorf("usage: folders create <path>: %w", common.ErrBadConfig)
		}
		return a.foldersCreate(ctx, pos[1])
	case "rename":
		if len(pos) != 3 {
			return fmt.Errorf("usage: folders rename <path> <new-name>: %w", common.ErrBadConfig)
		}
		return a.foldersRename(ctx, pos[1], pos[2])
	case "delete":
		if len(pos) != 2 {
			return fmt.Errorf("usage: folders delete <path> -yes: %w", common.ErrBadConfig)
		}
		return a.foldersDelete(ctx, pos[1], args)
	default:
		return fmt.Errorf("unknown folders subcommand %q: %w", pos[0], common.ErrBadConfig)
	}
}

func (a *App) foldersList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("folders list", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	tree := fs.Bool("tree", false, "print folders as an indented tree")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-tree", "--tree"})); err != nil {
		return err
	}

	folders, err := a.b.ListFolders(ctx, a.cfg.Account)
	if err != nil {
		return err
	}
	sort.Slice(folders, func(i, j int) bool {
		return folders[i].PathString() < folders[j].PathString()
	})

	if a.cfg.JSON {
		return printJSON(a.out, folders)
	}

	lines := make([]string, 0, len(folders))
	for _, f := range folders {
		if *tree {
			indent := strings.Repeat("  ", len(f.Path)-1)
			lines = append(lines, indent+f.Name)
		} else {
			lines = append(lines, f.PathString())
		}
	}
	printLines(a.out, lines)
	return nil
}

func (a *App) foldersCreate(ctx context.Context, path string) error {
	segments, err := SplitFolderPath(path)
	if err != nil {
		return err
	}
	parent := segments[:len(segments)-1]
	name := segments[len(segments)-1]

	id, err := a.b.CreateFolder(ctx, a.cfg.Account, parent, name)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, id)
	return nil
}

func (a *App) foldersRename(ctx context.Context, path, name string) error {
	segments, err := SplitFolderPath(path)
	if err != nil {
		return err
	}
	return a.b.RenameFolder(ctx, a.cfg.Account, segments, name)
}

func (a *App) foldersDelete(ctx context.Context, path string, args []string) error {
	if !hasYes(args) {
		return fmt.Errorf("refusing to delete folder %q without -yes: %w", path, common.ErrBadConfig)
	}
	segments, err := SplitFolderPath(path)
	if err != nil {
		return err
	}
	return a.b.DeleteFolder(ctx, a.cfg.Account, segments)
}

func hasYes(args []string) bool {
	return len(flagx.FilterArgs(args, []string{"-yes", "--yes"})) > 0
}
