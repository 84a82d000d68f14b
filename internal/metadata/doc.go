// Package metadata derives descriptive records from locally synced media
// files.
//
// The extractor shells out to exiftool and maps a fixed set of tags onto the
// Record type with explicit defaults for absent tags. Malformed tag values
// fail the whole extraction rather than being silently zeroed per field; the
// caller decides whether a bad file is skipped or fatal.
package metadata
