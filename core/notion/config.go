package notion

// Config holds configuration for the Notion source database.
type Config struct {
	// Token is the Notion integration token.
	Token string `mapstructure:"token" default:""`
	// DatabaseID is the database being mirrored.
	DatabaseID string `mapstructure:"database_id" default:""`
	// TitleProperty is the name of the title property.
	TitleProperty string `mapstructure:"title_property" default:"Name"`
	// DateProperty is the name of the date property that schedules a page.
	DateProperty string `mapstructure:"date_property" default:"Do Date"`
	// TimeoutSeconds is the per-request timeout.
	TimeoutSeconds int `mapstructure:"timeout_seconds" default:"20"`
}
