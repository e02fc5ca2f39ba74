// Package storage persists the user's notification settings.
//
// Two drivers:
//   - "file": a single canonical JSON document, written atomically
//   - "sqlite": a settings row plus one row per custom notification
//
// Both validate settings on save and on load, so invalid time input is
// rejected at this boundary and never reaches the reconciler.
package storage
