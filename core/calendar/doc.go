// Package calendar wraps the Google Calendar API as the sync target.
//
// The client exposes the narrow insert/update/delete/get/list surface the
// reconciliation engine needs, and classifies the API's 404/410 responses as
// a distinguishable not-found condition so the engine can recover from
// events deleted out-of-band.
//
// Credentials are non-interactive: an OAuth client secret file plus a
// previously provisioned token file, refreshed automatically by the oauth2
// token source.
package calendar
