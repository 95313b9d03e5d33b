package sync

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// ErrRunInProgress is returned when a run is requested while another run
// still holds the state document.
var ErrRunInProgress = errors.New("a sync run is already in progress")

// Runner serializes reconciliation runs. The state document is single-writer
// by design, so at most one run may execute at a time; an overlapping
// request aborts immediately instead of queueing, and is simply retried by
// whatever triggered it (the next webhook delivery or cron tick).
type Runner struct {
	orch *Orchestrator
	sem  *semaphore.Weighted
	log  *zap.Logger
}

// NewRunner wraps an orchestrator with overlap protection.
func NewRunner(orch *Orchestrator, log *zap.Logger) *Runner {
	return &Runner{
		orch: orch,
		sem:  semaphore.NewWeighted(1),
		log:  log,
	}
}

// Run executes one reconciliation if no other run is active. Returns
// ErrRunInProgress without blocking when one is.
func (r *Runner) Run(ctx context.Context, opts Options) (bool, error) {
	if !r.sem.TryAcquire(1) {
		return false, ErrRunInProgress
	}
	defer r.sem.Release(1)

	return r.orch.Run(ctx, opts)
}

// TriggerAsync detaches a run onto its own goroutine so callers (the webhook
// handler, the cron schedule) return immediately. Overlap and failure are
// logged, never surfaced: the next trigger reconciles whatever this run
// missed.
func (r *Runner) TriggerAsync(reason string, opts Options) {
	go func() {
		log := r.log.With(zap.String("trigger", reason))
		log.Info("Sync triggered")

		ran, err := r.Run(context.Background(), opts)
		switch {
		case errors.Is(err, ErrRunInProgress):
			log.Info("Sync already running, trigger dropped")
		case err != nil:
			log.Error("Triggered sync failed", zap.Error(err))
		case !ran:
			log.Info("Triggered sync skipped")
		}
	}()
}
