package state

import (
	"encoding/json"
	"fmt"
)

// Record ties one Notion page to the calendar event mirroring it.
type Record struct {
	// EventID is the Google Calendar event id.
	EventID string `json:"event_id"`

	// Hash is the content hash of the page as of the last successful write.
	// Empty for records migrated from the legacy bare-string shape; the
	// planner treats those as changed so the hash is backfilled on the next
	// run.
	Hash string `json:"hash,omitempty"`
}

// UnmarshalJSON accepts both the current {event_id, hash} object shape and
// the legacy bare event-id string. The union is decoded once here, at load
// time, so nothing downstream ever branches on the shape again.
func (r *Record) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var eventID string
		if err := json.Unmarshal(data, &eventID); err != nil {
			return err
		}
		*r = Record{EventID: eventID}
		return nil
	}

	type plain Record
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Record(p)
	return nil
}

// Document is the single unit of durable state.
type Document struct {
	// Records maps Notion page id to the synced calendar event.
	Records map[string]Record `json:"records"`

	// Fingerprint is the collection fingerprint stored by the last completed
	// run. Empty when unknown.
	Fingerprint string `json:"db_fingerprint,omitempty"`

	// LastRun is the RFC 3339 timestamp of the last completed run.
	LastRun string `json:"last_run,omitempty"`
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{Records: make(map[string]Record)}
}

// decodeDocument parses raw file content, accepting the current wrapped
// shape and the legacy top-level flat map of page id to event id.
func decodeDocument(data []byte) (*Document, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parsing state document: %w", err)
	}

	if _, ok := probe["records"]; ok {
		var doc Document
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("parsing state document: %w", err)
		}
		if doc.Records == nil {
			doc.Records = make(map[string]Record)
		}
		return &doc, nil
	}

	// Legacy flat map: every value is a record (bare string or object).
	records := make(map[string]Record, len(probe))
	for id, raw := range probe {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("parsing legacy record %q: %w", id, err)
		}
		records[id] = rec
	}
	return &Document{Records: records}, nil
}
