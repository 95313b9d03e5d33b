// Package sync implements the reconciliation engine that keeps a Google
// Calendar consistent with a Notion database without trusting either side's
// change notifications.
//
// A run is a strict sequence: load the persisted mapping, compute a database
// fingerprint, short-circuit if nothing changed, otherwise fetch the full
// snapshot, diff it against the mapping into a Plan, validate the Plan with
// the mass-delete guard, execute it against the calendar, and persist the
// updated mapping exactly once at the end.
//
// # Components
//
//  1. ItemHash: per-item content digest used to detect "this item changed".
//  2. Fingerprint: collection-wide digest of (id, last-edited) pairs used to
//     detect "nothing changed" and skip the run entirely.
//  3. BuildPlan: pure diff of snapshot vs mapping into creates, updates,
//     deletes and a skip count.
//  4. Allow: the mass-delete guard. An empty snapshot over a populated
//     mapping is treated as an upstream failure, not a legitimate wipe.
//  5. Executor: applies a Plan one operation at a time, recovering from
//     events that were deleted out-of-band and isolating per-item failures.
//  6. Orchestrator: sequences the stages and owns the force/dry-run modes.
//  7. Runner: run-overlap protection and the fire-and-forget trigger used by
//     the webhook and the cron schedule.
//
// The engine performs no automatic retries: a failed item stays inconsistent
// until the next run's diff picks it up again.
package sync
