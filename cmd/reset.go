package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"notion-calendar-sync/core/calendar"
	"notion-calendar-sync/core/config"
	"notion-calendar-sync/core/logger"
	"notion-calendar-sync/core/state"
	syncengine "notion-calendar-sync/core/sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var yesReset bool

// resetCmd deletes every synced event and the local state file.
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all synced events and the local state file",
	Long: `Scans the calendar for events carrying the notion-sync marker, deletes
them, and removes the local state file so the next run starts fresh.

Only events created by this tool are touched; human-created events never
carry the marker. This is destructive and asks for confirmation unless --yes
is given.`,
	RunE: runReset,
}

func init() {
	resetCmd.Flags().BoolVar(&yesReset, "yes", false, "Auto-confirm destructive actions (non-interactive)")

	RootCmd.AddCommand(resetCmd)
}

func runReset(cmd *cobra.Command, args []string) error {
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

	client, err := calendar.NewClient(ctx, cfg.Calendar, l)
	if err != nil {
		return fmt.Errorf("creating calendar client: %w", err)
	}

	l.Info("Scanning for synced events", zap.String("marker", syncengine.SourceMarkerProperty))
	events, err := client.ListByPrivateProperty(ctx, syncengine.SourceMarkerProperty)
	if err != nil {
		return fmt.Errorf("listing synced events: %w", err)
	}

	store := state.NewStore(cfg.Sync.StateFile, l)
	_, statErr := os.Stat(store.Path())
	hasStateFile := statErr == nil

	if len(events) == 0 && !hasStateFile {
		l.Info("Nothing to reset: no synced events and no state file")
		return nil
	}

	if len(events) == 0 {
		l.Info("No synced events found in the calendar")
	} else {
		l.Info("Found events to delete", zap.Int("count", len(events)))
	}

	if !confirmReset(len(events), os.Stdin) {
		l.Warn("Reset cancelled by user. No changes were made.")
		return nil
	}

	if len(events) > 0 {
		deleted := 0
		for i, ev := range events {
			if err := client.Delete(ctx, ev.Id); err != nil && !calendar.IsNotFound(err) {
				l.Error("Failed to delete event", zap.String("event_id", ev.Id), zap.Error(err))
				continue
			}
			deleted++
			if (i+1)%10 == 0 {
				l.Info("Deleting events...", zap.Int("done", i+1), zap.Int("total", len(events)))
			}
		}
		l.Info("Calendar cleanup complete", zap.Int("deleted", deleted))
	}

	if err := store.Remove(); err != nil {
		return fmt.Errorf("removing state file: %w", err)
	}
	l.Info("State file removed; the next run will be a fresh sync", zap.String("path", store.Path()))

	return nil
}

// confirmReset prompts for confirmation (covering both the calendar events
// and the state file) or uses the --yes flag.
func confirmReset(count int, in io.Reader) bool {
	if yesReset {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	if count > 0 {
		fmt.Printf("\n⚠️  About to delete %d synced events and the local state file. Type 'yes' to confirm: ", count)
	} else {
		fmt.Print("\n⚠️  About to remove the local state file. Type 'yes' to confirm: ")
	}

	reader := bufio.NewReader(in)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
