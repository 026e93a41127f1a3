package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/JaviSoto/apple-notes-cli/internal/backend"
	"github.com/JaviSoto/apple-notes-cli/internal/cli"
	"github.com/JaviSoto/apple-notes-cli/internal/config"
	"github.com/JaviSoto/apple-notes-cli/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fatal(err)
	}

	log := logging.NewDefault(os.Stderr, cfg.DebugScripts)

	// Progress needs \r repainting; only a terminal can show that.
	if !term.IsTerminal(int(os.Stderr.Fd())) {
		cfg.ShowProgress = false
	}

	b, err := backend.New(ctx, cfg, log)
	if err != nil {
		fatal(err)
	}

	app := cli.New(cfg, b, log, os.Stdin, os.Stdout, os.Stderr)
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fatal(err)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "apple-notes: %v\n", err)
	os.Exit(1)
}
