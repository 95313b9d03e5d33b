// Package notion wraps the Notion API as the sync source.
//
// The client pages through the configured database and renders each page
// into the flat item shape the reconciliation engine consumes: title, the
// raw ISO-8601 start/end of the date property, and the page's block content
// flattened to readable text. Pages without the date property are not
// calendar material and are skipped.
//
// It also serves the fingerprint feed: the (id, last-edited) pairs of every
// non-archived page, fetched without touching page content.
package notion
