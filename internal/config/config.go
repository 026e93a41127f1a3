// Package config builds the runtime configuration for the apple-notes CLI.
//
// All environment toggles are resolved here, once, at startup; the rest of
// the codebase only ever sees the resulting Config value.
package config

import (
	"fmt"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
)

// BackendMode selects where reads come from. Writes always go through the
// automation bridge.
type BackendMode string

const (
	// BackendAuto prefers the Notes database when it can be opened and
	// falls back to the automation bridge.
	BackendAuto BackendMode = "auto"
	// BackendOsascript uses the automation bridge for all reads and writes.
	BackendOsascript BackendMode = "osascript"
	// BackendDB reads from the Notes database (macOS only); writes still
	// use the automation bridge.
	BackendDB BackendMode = "db"
)

// Config holds runtime settings for the apple-notes CLI.
type Config struct {
	// Account is the Notes account to target.
	Account string
	// Backend selects the read backend.
	Backend BackendMode
	// JSON switches command output to machine-readable JSON.
	JSON bool
	// FixturePath, when set, replaces the real backends with the offline
	// fixture backend. For tests and development.
	FixturePath string
	// OsascriptBin is the automation binary to spawn.
	OsascriptBin string
	// DebugScripts dumps every automation script before running it.
	DebugScripts bool
	// ShowProgress enables per-note progress reporting on stderr.
	ShowProgress bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.Account = "iCloud"
	c.Backend = BackendAuto
	c.OsascriptBin = "osascript"
	c.ShowProgress = true
}

// Load constructs a Config: defaults first, then environment variables,
// then command-line flags. Later sources take precedence.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendAuto, BackendOsascript, BackendDB:
		return nil
	default:
		return fmt.Errorf("%w: unknown backend %q (want auto, osascript or db)",
			common.ErrBadConfig, c.Backend)
	}
}
