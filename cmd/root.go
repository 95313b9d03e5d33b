package cmd

import (
	"fmt"
	"os"

	"notion-calendar-sync/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "notion-calendar-sync",
	Short: "Mirror a Notion database into Google Calendar",
	Long: `notion-calendar-sync keeps a Google Calendar consistent with a Notion
database. It diffs the database against a persisted mapping of previously
synced pages and applies the minimal set of event creates, updates and
deletes, skipping runs entirely when a collection fingerprint shows nothing
changed.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Report through the standard logger in console format; CLI users
		// expect readable output, not JSON.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}
		os.Exit(1)
	}
}
