package server

// Config holds configuration for the webhook HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8000"`
	// WebhookPath is the route Notion deliveries are posted to.
	WebhookPath string `mapstructure:"webhook_path" default:"/notion/webhook"`
	// WebhookSecret is the shared secret used to verify delivery signatures.
	// Deliveries are rejected when it is unset.
	WebhookSecret string `mapstructure:"webhook_secret" default:""`
}
