package sync

import (
	"context"

	"google.golang.org/api/calendar/v3"
)

// Item is one Notion page rendered down to the fields that matter for the
// calendar. Start and End are the raw ISO-8601 strings from the date
// property; they may be date-only or carry a time component.
type Item struct {
	// ID is the opaque Notion page id.
	ID string

	// Title is the page title ("Untitled" when the title property is empty).
	Title string

	// Start is the ISO-8601 start of the date property.
	Start string

	// End is the ISO-8601 end of the date property. Falls back to Start when
	// the property has no end.
	End string

	// Description is the rendered page content.
	Description string
}

// EditStamp is one (id, last-edited) pair from the source's fingerprint feed.
// Archived pages are filtered out before the stamps reach the engine.
type EditStamp struct {
	ID         string
	LastEdited string
}

// Source is the upstream collection being mirrored.
type Source interface {
	// FetchAll returns the full snapshot of non-archived items, merged
	// deterministically across pages.
	FetchAll(ctx context.Context) ([]Item, error)

	// EditStamps returns the (id, last-edited) pairs used by the
	// fingerprinter. Pages may overlap; the fingerprinter collapses
	// duplicates with last-write-wins semantics.
	EditStamps(ctx context.Context) ([]EditStamp, error)
}

// Target is the calendar the items are mirrored into. Implementations must
// return errors classifiable by calendar.IsNotFound when the event is gone.
type Target interface {
	// Insert creates an event and returns its id.
	Insert(ctx context.Context, ev *calendar.Event) (string, error)

	// Update overwrites an existing event.
	Update(ctx context.Context, eventID string, ev *calendar.Event) error

	// Delete removes an event.
	Delete(ctx context.Context, eventID string) error
}

// Options controls a single reconciliation run.
type Options struct {
	// Force skips the fingerprint short-circuit and overrides the
	// mass-delete guard.
	Force bool

	// DryRun computes and reports the plan without touching the calendar or
	// the state file.
	DryRun bool
}

// Stats counts the operations performed (or, in dry-run mode, planned) by a
// single run.
type Stats struct {
	Created int
	Updated int
	Deleted int
	Skipped int
}
