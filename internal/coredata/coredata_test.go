package coredata

import (
	"testing"
	"time"

	"github.com/JaviSoto/apple-notes-cli/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePK_Parses(t *testing.T) {
	pk, err := ParsePK("x-coredata://UUID/ICNote/p123")
	require.NoError(t, err)
	assert.Equal(t, int64(123), pk)
}

func TestParsePK_RejectsMalformed(t *testing.T) {
	tests := []string{
		"p123",                           // no path separator
		"x-coredata://UUID/ICNote/123",   // missing p prefix
		"x-coredata://UUID/ICNote/pabc",  // non-numeric suffix
		"x-coredata://UUID/ICNote/p",     // empty pk
		"",                               // empty id
	}
	for _, id := range tests {
		_, err := ParsePK(id)
		require.Error(t, err, "id %q", id)
		assert.ErrorIs(t, err, common.ErrInvalidID)
	}
}

func TestIDRoundTrip(t *testing.T) {
	id := NoteID("AAAA-BBBB", 42)
	assert.Equal(t, "x-coredata://AAAA-BBBB/ICNote/p42", id)

	pk, err := ParsePK(id)
	require.NoError(t, err)
	assert.Equal(t, int64(42), pk)

	assert.Equal(t, "x-coredata://AAAA-BBBB/ICFolder/p7", FolderID("AAAA-BBBB", 7))
}

func TestIDSuffix(t *testing.T) {
	assert.Equal(t, "p123", IDSuffix("x-coredata://UUID/ICNote/p123"))
	assert.Equal(t, "whole-id", IDSuffix("whole-id"))
}

func TestFromAppleSeconds(t *testing.T) {
	assert.Equal(t,
		time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
		FromAppleSeconds(0))

	// Fractional seconds survive to millisecond precision.
	got := FromAppleSeconds(1.5)
	assert.Equal(t, time.Date(2001, 1, 1, 0, 0, 1, 500_000_000, time.UTC), got)
}

func TestNoteDates_FallbackChain(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	created, modified := NoteDates(f(10), f(20), f(30), f(40), f(50))
	assert.Equal(t, FromAppleSeconds(30), created)
	assert.Equal(t, FromAppleSeconds(40), modified)

	// Missing preferred columns fall back in order.
	created, modified = NoteDates(f(10), nil, nil, nil, f(50))
	assert.Equal(t, FromAppleSeconds(10), created)
	assert.Equal(t, FromAppleSeconds(50), modified)

	// No modification date at all falls back to creation.
	created, modified = NoteDates(f(10), nil, nil, nil, nil)
	assert.Equal(t, created, modified)

	// Nothing at all resolves to the epoch.
	created, modified = NoteDates(nil, nil, nil, nil, nil)
	assert.Equal(t, FromAppleSeconds(0), created)
	assert.Equal(t, FromAppleSeconds(0), modified)
}
