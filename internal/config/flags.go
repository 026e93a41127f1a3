package config

import (
	"flag"

	"github.com/JaviSoto/apple-notes-cli/internal/flagx"
)

// parseFlags populates selected Config fields from global command-line
// flags. Subcommand flags (e.g. export's -jobs) are parsed by the commands
// themselves; the args are filtered so the two sets never collide.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{
		"-account", "--account",
		"-backend", "--backend",
		"-json", "--json",
		"-fixture", "--fixture",
	})

	fs := flag.NewFlagSet("global", flag.ContinueOnError)

	backend := fs.String("backend", string(cfg.Backend), "read backend: auto, osascript or db")
	fs.StringVar(&cfg.Account, "account", cfg.Account, "Notes account to target")
	fs.BoolVar(&cfg.JSON, "json", cfg.JSON, "output JSON for machine consumption")
	fs.StringVar(&cfg.FixturePath, "fixture", cfg.FixturePath, "path to a fixture backend file (tests/dev only)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	cfg.Backend = BackendMode(*backend)
	return nil
}
