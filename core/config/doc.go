// Package config loads the application configuration from environment
// variables and an optional .env file.
//
// Each functional area owns its Config struct (server, log, notion,
// calendar, sync); this package composes them and binds defaults from the
// `default` struct tags via reflection, so adding a field never requires
// touching the loader. Environment variables map onto nested keys with
// underscores, e.g. NOTION_DATABASE_ID -> notion.database_id.
package config
