// Package poll implements the generic fetch → dedup → send → mark loop
// that every upstream source runs on its own timer.
package poll

import (
	"context"
	"time"
)

// Event is one normalized upstream record: a stable identity key plus the
// rendered notification text. Events are transient; they are consumed by
// the send-and-mark step and discarded.
type Event struct {
	Key  string
	Text string

	// TS is the record's own incremental timestamp (not wall clock).
	// Empty for sources without a cursor.
	TS string
}

// Source fetches candidate records for one upstream data source.
// Fetch receives the stored cursor value, or "" for windowed sources.
type Source interface {
	Name() string
	Fetch(ctx context.Context, cursor string) ([]Event, error)
}

// CursorSpec is implemented by sources that poll incrementally. The
// default is computed lazily on the first read, so a fresh deployment
// starts from a bounded window instead of all history.
type CursorSpec interface {
	CursorName() string
	DefaultCursor(now time.Time) string
}
