package sync

import (
	"notion-calendar-sync/core/state"
)

// CreateOp creates a new calendar event for a page never synced before.
type CreateOp struct {
	SourceID string
	Item     Item
	Hash     string
}

// UpdateOp overwrites the event already mapped to a page whose content hash
// changed (or whose stored record predates content hashing).
type UpdateOp struct {
	SourceID string
	Item     Item
	EventID  string
	Hash     string
}

// DeleteOp removes the event mapped to a page that disappeared from the
// source.
type DeleteOp struct {
	SourceID string
	EventID  string
}

// Plan is the minimal set of operations needed to reconcile the calendar
// with a source snapshot. It is built fresh each run and discarded after
// execution; execution order is updates, then creates, then deletes.
type Plan struct {
	Creates []CreateOp
	Updates []UpdateOp
	Deletes []DeleteOp

	// Skipped counts snapshot items whose stored hash already matches.
	Skipped int
}

// Operations returns the number of calendar operations the plan carries.
func (p *Plan) Operations() int {
	return len(p.Creates) + len(p.Updates) + len(p.Deletes)
}

// Empty reports whether the plan contains no operations.
func (p *Plan) Empty() bool {
	return p.Operations() == 0
}

// BuildPlan diffs a source snapshot against the persisted mapping.
//
// An item absent from the mapping becomes a create; present with a matching
// hash, a skip; present with a differing (or missing, for legacy records)
// hash, an update carrying the existing event id. Every mapped id absent
// from the snapshot becomes a delete. If the source returns the same id
// twice in one snapshot the last occurrence wins.
func BuildPlan(snapshot []Item, doc *state.Document) *Plan {
	// Collapse duplicates first so an id can never land in two buckets.
	seen := make(map[string]Item, len(snapshot))
	order := make([]string, 0, len(snapshot))
	for _, item := range snapshot {
		if _, dup := seen[item.ID]; !dup {
			order = append(order, item.ID)
		}
		seen[item.ID] = item
	}

	plan := &Plan{}
	for _, id := range order {
		item := seen[id]
		hash := ItemHash(item)

		rec, ok := doc.Records[id]
		if !ok {
			plan.Creates = append(plan.Creates, CreateOp{SourceID: id, Item: item, Hash: hash})
			continue
		}
		if rec.Hash == hash {
			plan.Skipped++
			continue
		}
		plan.Updates = append(plan.Updates, UpdateOp{SourceID: id, Item: item, EventID: rec.EventID, Hash: hash})
	}

	for id, rec := range doc.Records {
		if _, ok := seen[id]; !ok {
			plan.Deletes = append(plan.Deletes, DeleteOp{SourceID: id, EventID: rec.EventID})
		}
	}

	return plan
}
