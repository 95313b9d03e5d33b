package sync

// Config holds configuration for the reconciliation engine.
type Config struct {
	// StateFile is the path of the persisted mapping document.
	StateFile string `mapstructure:"state_file" default:"synced_events.json"`
	// Schedule is an optional cron spec for periodic syncs in serve mode
	// (e.g. "@every 10m"). Empty disables the schedule; webhook deliveries
	// still trigger syncs.
	Schedule string `mapstructure:"schedule" default:""`
}
