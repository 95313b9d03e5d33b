package cmd

import (
	"context"
	"fmt"

	"notion-calendar-sync/core/config"
	"notion-calendar-sync/core/logger"
	syncengine "notion-calendar-sync/core/sync"

	"github.com/spf13/cobra"
)

var (
	forceSync  bool
	dryRunSync bool
)

// syncCmd runs one reconciliation and exits.
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one reconciliation against the calendar",
	Long: `Run a single reconciliation: compare the Notion database with the
persisted mapping and create, update and delete calendar events to match.

The run exits early when the database fingerprint is unchanged; use --force
to diff anyway (and to override the mass-delete guard). --dry-run reports
what would happen without touching the calendar or the state file.

Examples:
  # Normal run
  notion-calendar-sync sync

  # Show the plan without applying it
  notion-calendar-sync sync --dry-run

  # Full diff even if the fingerprint matches
  notion-calendar-sync sync --force`,
	RunE: runSync,
}

func init() {
	syncCmd.Flags().BoolVar(&forceSync, "force", false, "Skip the fingerprint short-circuit and override the mass-delete guard")
	syncCmd.Flags().BoolVar(&dryRunSync, "dry-run", false, "Plan and report without mutating the calendar or state file")

	RootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	runner, err := newRunner(ctx, cfg, l)
	if err != nil {
		return err
	}

	ran, err := runner.Run(ctx, syncengine.Options{Force: forceSync, DryRun: dryRunSync})
	if err != nil {
		return err
	}
	if !ran {
		l.Info("Nothing to do")
	}
	return nil
}
