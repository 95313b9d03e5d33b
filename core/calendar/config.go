package calendar

// Config holds configuration for the Google Calendar target.
type Config struct {
	// CalendarID is the calendar events are written to.
	CalendarID string `mapstructure:"calendar_id" default:"primary"`
	// CredentialsFile is the OAuth client secret JSON file.
	CredentialsFile string `mapstructure:"credentials_file" default:"credentials.json"`
	// TokenFile is the persisted OAuth token JSON file.
	TokenFile string `mapstructure:"token_file" default:"token.json"`
}
