// Package watcher runs the hotplug-driven sync loop.
//
// It listens for udev netlink events so a camera attach triggers a sync run
// without polling, and enforces single-instance execution with a lock file.
// Only one sync runs at a time; attach events arriving mid-sync are dropped,
// the next attach picks the files up anyway thanks to the recency window.
package watcher
