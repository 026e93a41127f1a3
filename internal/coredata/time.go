package coredata

import "time"

// appleEpoch is 2001-01-01T00:00:00Z as a Unix timestamp. The Notes store
// records all timestamps as float seconds relative to this instant.
const appleEpoch = 978307200

// FromAppleSeconds converts an Apple-epoch offset (possibly fractional
// seconds) into an absolute UTC instant. Sub-millisecond precision is
// discarded, matching what the store actually contains.
func FromAppleSeconds(secs float64) time.Time {
	base := time.Unix(appleEpoch, 0).UTC()
	return base.Add(time.Duration(int64(secs*1000)) * time.Millisecond)
}

// FirstSeconds returns the first non-nil candidate in priority order. The
// store spreads any one logical timestamp across several columns; callers
// pass them best-first.
func FirstSeconds(candidates ...*float64) (float64, bool) {
	for _, c := range candidates {
		if c != nil {
			return *c, true
		}
	}
	return 0, false
}

// NoteDates resolves the created/modified instants for one note row.
// Creation prefers the third date column, then the second, then the first,
// defaulting to the Apple epoch itself. Modification prefers the primary
// modification column, then the at-import one, defaulting to the creation
// time.
func NoteDates(c1, c2, c3, m1, m2 *float64) (created, modified time.Time) {
	createdSecs, _ := FirstSeconds(c3, c2, c1)
	modifiedSecs, ok := FirstSeconds(m1, m2)
	if !ok {
		modifiedSecs = createdSecs
	}
	return FromAppleSeconds(createdSecs), FromAppleSeconds(modifiedSecs)
}
