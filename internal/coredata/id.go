// Package coredata translates between the opaque Core Data identifiers the
// Notes application hands out and the numeric primary keys the backing
// store is keyed by, and converts Apple-epoch timestamps.
//
// An id looks like:
//
//	x-coredata://<store-uuid>/<EntityKind>/p<pk>
//
// The store UUID disambiguates ids across different copies of the store.
package coredata

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
)

// Entity kinds used by the Notes store.
const (
	EntityNote   = "ICNote"
	EntityFolder = "ICFolder"
)

// NoteID renders the opaque id for a note primary key.
func NoteID(storeUUID string, pk int64) string {
	return fmt.Sprintf("x-coredata://%s/%s/p%d", storeUUID, EntityNote, pk)
}

// FolderID renders the opaque id for a folder primary key.
func FolderID(storeUUID string, pk int64) string {
	return fmt.Sprintf("x-coredata://%s/%s/p%d", storeUUID, EntityFolder, pk)
}

// ParsePK extracts the trailing numeric primary key from an opaque id.
// Malformed input (no path separator, missing p prefix, non-numeric
// suffix) yields an error matching common.ErrInvalidID.
func ParsePK(id string) (int64, error) {
	slash := strings.LastIndexByte(id, '/')
	if slash < 0 {
		return 0, fmt.Errorf("%w: %s", common.ErrInvalidID, id)
	}
	last := id[slash+1:]
	pkText, ok := strings.CutPrefix(last, "p")
	if !ok {
		return 0, fmt.Errorf("%w: %s", common.ErrInvalidID, id)
	}
	pk, err := strconv.ParseInt(pkText, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad pk in %s", common.ErrInvalidID, id)
	}
	return pk, nil
}

// IDSuffix returns the trailing path segment of an opaque id ("p123"), or
// the id itself when it has no separator. Used for directory names.
func IDSuffix(id string) string {
	if slash := strings.LastIndexByte(id, '/'); slash >= 0 {
		return id[slash+1:]
	}
	return id
}
