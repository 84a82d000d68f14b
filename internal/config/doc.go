// Package config loads, normalizes, and validates camsync configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob the
// CLI and watcher need: staging and catalog locations, sync window and
// collision policy, extractor parallelism, and log routing.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical values, and clear validation errors.
package config
