// Package logging constructs the slog loggers used across the CLI and
// pipeline.
//
// Two output formats are supported: a compact console format for interactive
// use and JSON for machine consumption. Loggers carry a "component" attribute
// naming the subsystem; the console handler hoists it into the message prefix
// so pipeline stages read naturally in terminal output.
package logging
