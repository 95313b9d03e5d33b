// Package state persists the mapping between Notion page ids and the Google
// Calendar events created for them, plus the last collection fingerprint and
// last-run timestamp.
//
// The whole mapping lives in a single JSON document with single-writer
// semantics: one run loads it, mutates it in memory while executing, and
// flushes it back exactly once. A corrupt or unreadable file degrades to an
// empty store (every item is re-planned as a create) rather than failing.
//
// Two legacy shapes are accepted on load and normalized on the first write:
// a top-level flat map of page id to bare event id, and record values that
// are bare event-id strings instead of {event_id, hash} objects.
package state
