// Package cli implements the command surface: subcommand dispatch, flag
// parsing and output formatting.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/JaviSoto/apple-notes-cli/internal/backend"
	"github.com/JaviSoto/apple-notes-cli/internal/buildinfo"
	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/JaviSoto/apple-notes-cli/internal/config"
	"github.com/JaviSoto/apple-notes-cli/internal/flagx"
	"github.com/JaviSoto/apple-notes-cli/internal/logging"
)

const usage = `Usage: apple-notes <command> [arguments] [flags]

Commands:
  accounts list
  folders list [-tree]
  folders create <path>
  folders rename <path> <new-name>
  folders delete <path> -yes
  notes list [-folder <path>] [-query <text>] [-limit <n>]
  notes show <id>
  notes create <folder-path> <title> (-body <text> | -body-file <path> | -stdin) [-markdown]
  notes rename <id> <new-title>
  notes set-body <id> (-body <text> | -body-file <path> | -stdin) [-markdown]
  notes append <id> (-body <text> | -body-file <path> | -stdin) [-markdown]
  notes move <id> <folder-path>
  notes delete <id> -yes
  export -out <dir> [-jobs <n>] [-html]
  version

Folder paths separate segments with " > ", e.g. "Personal > Archive".

Global flags:
  -account <name>    Notes account to target (default iCloud)
  -backend <mode>    auto, osascript or db
  -json              machine-readable output
`

// App wires a configured backend to the command surface.
type App struct {
	cfg *config.Config
	b   backend.Backend
	log logging.Logger

	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

func New(cfg *config.Config, b backend.Backend, log logging.Logger, in io.Reader, out, errOut io.Writer) *App {
	return &App{cfg: cfg, b: b, log: log, in: in, out: out, errOut: errOut}
}

// Run dispatches one invocation. Command words and positional arguments
// come first, flags after them.
func (a *App) Run(ctx context.Context, args []string) error {
	pos := flagx.Positionals(args)
	if len(pos) == 0 {
		fmt.Fprint(a.errOut, usage)
		return fmt.Errorf("no command given: %w", common.ErrBadConfig)
	}

	switch pos[0] {
	case "accounts":
		return a.runAccounts(ctx, pos[1:])
	case "folders":
		return a.runFolders(ctx, pos[1:], args)
	case "notes":
		return a.runNotes(ctx, pos[1:], args)
	case "export":
		return a.runExport(ctx, args)
	case "version":
		buildinfo.PrintBuildData(a.out)
		return nil
	case "help":
		fmt.Fprint(a.out, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q: %w", pos[0], common.ErrBadConfig)
	}
}
