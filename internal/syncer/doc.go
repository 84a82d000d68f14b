// Package syncer coordinates the sync-and-catalog pipeline: device listing,
// recency filtering, sequential fetch into staging, concurrent metadata
// extraction, catalog upsert, and candidate assembly for the selection
// surface.
//
// Device I/O stays strictly sequential through the camera gateway; only
// metadata extraction fans out across workers. A failed fetch or write aborts
// the whole sync, leaving retry policy to the caller.
package syncer
