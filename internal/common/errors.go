// Package common defines shared sentinel errors used across the CLI,
// backends, and the export pipeline. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Lookup errors.
	ErrNotFound      = errors.New("not found")
	ErrUnknownFolder = errors.New("unknown folder id")

	// Construction errors. Both abort an export before any note is fetched.
	ErrDuplicateFolder = errors.New("duplicate folder id")
	ErrFolderCycle     = errors.New("folder parent cycle detected")

	// ErrInvalidID marks a malformed Core Data identifier.
	ErrInvalidID = errors.New("invalid coredata id")

	// ErrUndecodableBlob marks a note blob no heuristic could recover
	// text from.
	ErrUndecodableBlob = errors.New("could not extract text from note blob")

	// ErrBadConfig marks an invalid runtime configuration value, rejected
	// before any I/O happens.
	ErrBadConfig = errors.New("invalid configuration")
)
