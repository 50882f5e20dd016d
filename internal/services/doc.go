// Package services defines shared utilities consumed by the pipeline
// processors and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp item IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that translate failures
//     into consistent history statuses.
//
// Use these helpers when wiring new processor logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
