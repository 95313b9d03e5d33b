package sync

import (
	"context"

	"notion-calendar-sync/core/calendar"
	"notion-calendar-sync/core/state"

	"go.uber.org/zap"
)

// Executor applies a Plan against the target calendar, one operation at a
// time. Each operation category is processed independently and a failing
// item never blocks the remaining items: the failed item's record is simply
// left as it was, so the next run's diff retries it.
type Executor struct {
	target Target
	log    *zap.Logger
}

// NewExecutor creates an executor writing to target.
func NewExecutor(target Target, log *zap.Logger) *Executor {
	return &Executor{target: target, log: log}
}

// Apply executes the plan, mutating doc's records in memory as each
// operation succeeds. The caller owns flushing doc to durable storage.
//
// In dry-run mode no calendar calls are made and doc is left untouched, but
// the stats are computed as if every planned operation succeeded.
func (e *Executor) Apply(ctx context.Context, plan *Plan, doc *state.Document, dryRun bool) Stats {
	stats := Stats{Skipped: plan.Skipped}

	if dryRun {
		stats.Updated = len(plan.Updates)
		stats.Created = len(plan.Creates)
		stats.Deleted = len(plan.Deletes)
		return stats
	}

	for _, op := range plan.Updates {
		e.applyUpdate(ctx, op, doc, &stats)
	}
	for _, op := range plan.Creates {
		e.applyCreate(ctx, op, doc, &stats)
	}
	for _, op := range plan.Deletes {
		e.applyDelete(ctx, op, doc, &stats)
	}

	return stats
}

func (e *Executor) applyUpdate(ctx context.Context, op UpdateOp, doc *state.Document, stats *Stats) {
	body := BuildEventBody(op.Item)

	err := e.target.Update(ctx, op.EventID, body)
	if err == nil {
		doc.Records[op.SourceID] = state.Record{EventID: op.EventID, Hash: op.Hash}
		stats.Updated++
		e.log.Info("Updated event", zap.String("title", op.Item.Title), zap.String("event_id", op.EventID))
		return
	}

	if calendar.IsNotFound(err) {
		// The event was deleted out-of-band. Re-create it instead of
		// failing; the mapping moves to the fresh event id.
		eventID, insertErr := e.target.Insert(ctx, body)
		if insertErr != nil {
			e.log.Warn("Failed to re-create vanished event",
				zap.String("title", op.Item.Title),
				zap.Error(insertErr),
			)
			return
		}
		doc.Records[op.SourceID] = state.Record{EventID: eventID, Hash: op.Hash}
		stats.Created++
		e.log.Info("Re-created vanished event", zap.String("title", op.Item.Title), zap.String("event_id", eventID))
		return
	}

	e.log.Warn("Failed to update event",
		zap.String("title", op.Item.Title),
		zap.String("event_id", op.EventID),
		zap.Error(err),
	)
}

func (e *Executor) applyCreate(ctx context.Context, op CreateOp, doc *state.Document, stats *Stats) {
	body := BuildEventBody(op.Item)

	eventID, err := e.target.Insert(ctx, body)
	if err != nil {
		// The id stays absent from the mapping, so the item is re-planned
		// as a create on the next run.
		e.log.Warn("Failed to create event", zap.String("title", op.Item.Title), zap.Error(err))
		return
	}
	doc.Records[op.SourceID] = state.Record{EventID: eventID, Hash: op.Hash}
	stats.Created++
	e.log.Info("Created event", zap.String("title", op.Item.Title), zap.String("event_id", eventID))
}

func (e *Executor) applyDelete(ctx context.Context, op DeleteOp, doc *state.Document, stats *Stats) {
	err := e.target.Delete(ctx, op.EventID)
	if err != nil && !calendar.IsNotFound(err) {
		e.log.Warn("Failed to delete event", zap.String("event_id", op.EventID), zap.Error(err))
		return
	}

	// Success, or the event is already gone: either way the mapping entry
	// has no event behind it anymore.
	delete(doc.Records, op.SourceID)
	stats.Deleted++
	e.log.Info("Deleted event", zap.String("event_id", op.EventID))
}
