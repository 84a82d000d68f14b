// Package catalog persists metadata records in SQLite keyed by filename.
//
// The Store owns a single database connection for the life of the process,
// applies the schema idempotently on open, and exposes batch upsert,
// content-fingerprint lookup, clear, and rebuild. Batch mutations run in one
// transaction so readers never observe a partially applied batch.
//
// Rebuild drives concurrent metadata extraction over a bounded worker pool;
// callers must serialize Rebuild invocations on the same Store themselves.
package catalog
