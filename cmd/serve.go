package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"notion-calendar-sync/core/config"
	"notion-calendar-sync/core/logger"
	"notion-calendar-sync/core/middleware/rayid"
	syncengine "notion-calendar-sync/core/sync"
	"notion-calendar-sync/feature/webhook"

	"github.com/gofiber/fiber/v2"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd runs the webhook listener (and optional cron schedule).
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Notion webhook and keep the calendar in sync",
	Long: `Starts the HTTP listener for Notion change notifications. Verified
deliveries dispatch a forced sync on a detached worker; overlapping triggers
are dropped, not queued. When sync.schedule is configured a cron schedule
additionally triggers periodic syncs as a safety net for missed webhooks.`,
	RunE: runServe,
}

func init() {
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	// 1. Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Initialize logger
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()
	zap.ReplaceGlobals(l)

	// 3. Wire the sync pipeline
	runner, err := newRunner(ctx, cfg, l)
	if err != nil {
		return err
	}

	// 4. Initialize the Fiber app
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true, // We log our own startup message
	})
	app.Use(rayid.New())
	app.Use(func(c *fiber.Ctx) error {
		rl := logger.WithRayID(l, c)
		rl.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			rl.Error("Request error", zap.Error(err))
		}
		return err
	})

	// 5. Register the webhook feature
	handler := webhook.NewHandler(cfg.Server.WebhookSecret, cfg.Notion.DatabaseID, runner, l)
	handler.Register(app, cfg.Server.WebhookPath)

	// 6. Optional periodic sync
	var schedule *cron.Cron
	if cfg.Sync.Schedule != "" {
		schedule = cron.New()
		_, err := schedule.AddFunc(cfg.Sync.Schedule, func() {
			runner.TriggerAsync("schedule", syncengine.Options{})
		})
		if err != nil {
			return fmt.Errorf("invalid sync schedule %q: %w", cfg.Sync.Schedule, err)
		}
		schedule.Start()
		l.Info("Periodic sync enabled", zap.String("schedule", cfg.Sync.Schedule))
	}

	// 7. Start server
	go func() {
		l.Info("Starting webhook server",
			zap.String("port", cfg.Server.Port),
			zap.String("path", cfg.Server.WebhookPath),
		)
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// 8. Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	l.Info("Shutting down server...")
	if schedule != nil {
		schedule.Stop()
	}
	return app.Shutdown()
}
