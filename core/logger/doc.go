// Package logger provides structured logging based on Zap.
//
// Configuration selects the level (debug builds a development logger) and
// the encoding (console for interactive use, json for services). WithRayID
// attaches the per-request ray_id from the Fiber context so all log lines
// for one webhook delivery can be correlated.
package logger
