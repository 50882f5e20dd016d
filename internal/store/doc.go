// Package store persists pipeline run history in SQLite.
//
// The Store manages database connections, schema initialization, and the
// status transitions items move through while a video is downloaded,
// transcribed, and summarized. Items capture the source URL, the provider
// that claimed it, artifact paths, and failure details so reruns and the
// history command can report on past work.
//
// The database is transient storage for run bookkeeping rather than a
// long-term archive. Schema changes bump the version in schema.go; users
// clear the database to adopt the new schema.
package store
