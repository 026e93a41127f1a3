package config

import "os"

// Environment variables recognized by the CLI. These are read exactly once,
// here; leaf functions never consult the process environment.
const (
	EnvFixture      = "APPLE_NOTES_FIXTURE"
	EnvOsascriptBin = "APPLE_NOTES_OSASCRIPT_BIN"
	EnvDebugScript  = "APPLE_NOTES_DEBUG_SCRIPT"
	EnvNoProgress   = "NO_PROGRESS"
)

func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvFixture); ok && v != "" {
		cfg.FixturePath = v
	}
	if v, ok := os.LookupEnv(EnvOsascriptBin); ok && v != "" {
		cfg.OsascriptBin = v
	}
	if _, ok := os.LookupEnv(EnvDebugScript); ok {
		cfg.DebugScripts = true
	}
	if _, ok := os.LookupEnv(EnvNoProgress); ok {
		cfg.ShowProgress = false
	}
}
