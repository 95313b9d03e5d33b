package sync

import (
	"context"
	"fmt"
	"time"

	"notion-calendar-sync/core/state"

	"go.uber.org/zap"
)

// Orchestrator sequences a full reconciliation run:
// load -> fingerprint -> (short-circuit | fetch) -> plan -> guard ->
// execute -> persist.
//
// A single run is strictly sequential; the state document is mutated only in
// memory during execution and flushed to disk exactly once at the end, so a
// run killed mid-execution leaves the persisted mapping stale but never
// corrupted.
type Orchestrator struct {
	source Source
	store  *state.Store
	exec   *Executor
	log    *zap.Logger

	// now is swappable for tests.
	now func() time.Time
}

// NewOrchestrator wires a run pipeline from its collaborators.
func NewOrchestrator(source Source, target Target, store *state.Store, log *zap.Logger) *Orchestrator {
	return &Orchestrator{
		source: source,
		store:  store,
		exec:   NewExecutor(target, log),
		log:    log,
		now:    time.Now,
	}
}

// Run performs one reconciliation and reports whether a sync actually
// executed: false on the fingerprint short-circuit and on a guard veto,
// neither of which is an error.
func (o *Orchestrator) Run(ctx context.Context, opts Options) (bool, error) {
	started := o.now()

	doc, err := o.store.Load()
	if err != nil {
		return false, err
	}

	// The fingerprint is a pure optimization: an empty value (feed failure)
	// falls through to the full diff rather than being read as "unchanged".
	fp := o.collectionFingerprint(ctx)
	if !opts.Force && !opts.DryRun && fp != "" && fp == doc.Fingerprint {
		o.log.Info("Database fingerprint unchanged, skipping sync",
			zap.Int("records", len(doc.Records)),
		)
		return false, nil
	}

	snapshot, err := o.source.FetchAll(ctx)
	if err != nil {
		return false, fmt.Errorf("fetching source snapshot: %w", err)
	}
	o.log.Info("Fetched source snapshot", zap.Int("items", len(snapshot)))

	plan := BuildPlan(snapshot, doc)

	if !Allow(len(snapshot), len(doc.Records), opts.Force) {
		o.log.Warn("Source returned zero items but many events are synced; refusing mass delete. Re-run with force to override.",
			zap.Int("records", len(doc.Records)),
		)
		return false, nil
	}

	stats := o.exec.Apply(ctx, plan, doc, opts.DryRun)

	if !opts.DryRun {
		applied := stats.Created + stats.Updated + stats.Deleted
		if applied < plan.Operations() {
			// A failed operation leaves its record stale for retry, and an
			// up-to-date fingerprint would short-circuit that retry. Persist
			// an empty one; the next run takes the full diff path.
			o.log.Warn("Some operations failed; clearing fingerprint to force a full diff on the next run",
				zap.Int("applied", applied),
				zap.Int("planned", plan.Operations()),
			)
			fp = ""
		}
		doc.Fingerprint = fp
		doc.LastRun = o.now().UTC().Format(time.RFC3339)
		if err := o.store.Save(doc); err != nil {
			return false, fmt.Errorf("persisting state: %w", err)
		}
	}

	o.log.Info("Sync complete",
		zap.Int("created", stats.Created),
		zap.Int("updated", stats.Updated),
		zap.Int("deleted", stats.Deleted),
		zap.Int("skipped", stats.Skipped),
		zap.Bool("dry_run", opts.DryRun),
		zap.Duration("took", o.now().Sub(started)),
	)
	return true, nil
}

// collectionFingerprint computes the current collection fingerprint, or ""
// when the feed is unavailable.
func (o *Orchestrator) collectionFingerprint(ctx context.Context) string {
	stamps, err := o.source.EditStamps(ctx)
	if err != nil {
		o.log.Warn("Fingerprint feed unavailable, falling back to full diff", zap.Error(err))
		return ""
	}
	return Fingerprint(stamps)
}
