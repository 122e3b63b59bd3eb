package timeresolve

import (
	"fmt"
	"time"
)

// civilLayouts is tried in order against a caller-supplied local datetime
// string. No natural-language date parser exists anywhere in the retrieved
// example pack, so this stays on the standard library's layout-based
// time.Parse, the same approach every plain-stdlib Go service uses for a
// small closed set of accepted formats.
var civilLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"Jan 2, 2006 3:04 PM",
	"January 2, 2006 15:04",
	"01/02/2006 15:04",
	"01/02/2006 15:04:05",
}

// ErrUnparseableDatetime means none of civilLayouts matched the input.
var ErrUnparseableDatetime = fmt.Errorf("timeresolve: unparseable local datetime")

// parseCivil parses s as a naive (zone-less) local datetime, trying each
// known layout in turn.
func parseCivil(s string) (time.Time, error) {
	for _, layout := range civilLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseableDatetime, s)
}
