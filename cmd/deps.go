package cmd

import (
	"context"
	"fmt"

	"notion-calendar-sync/core/calendar"
	"notion-calendar-sync/core/config"
	"notion-calendar-sync/core/notion"
	"notion-calendar-sync/core/state"
	syncengine "notion-calendar-sync/core/sync"

	"go.uber.org/zap"
)

// newRunner wires the full sync pipeline from configuration: source client,
// target client, state store, orchestrator, overlap-protected runner.
func newRunner(ctx context.Context, cfg *config.Config, log *zap.Logger) (*syncengine.Runner, error) {
	source, err := notion.NewClient(cfg.Notion, log)
	if err != nil {
		return nil, fmt.Errorf("creating notion client: %w", err)
	}

	target, err := calendar.NewClient(ctx, cfg.Calendar, log)
	if err != nil {
		return nil, fmt.Errorf("creating calendar client: %w", err)
	}

	store := state.NewStore(cfg.Sync.StateFile, log)
	orch := syncengine.NewOrchestrator(source, target, store, log)

	return syncengine.NewRunner(orch, log), nil
}
