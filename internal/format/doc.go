// Package format renders repository fields for terminal display.
//
// All helpers are pure string functions so both the interactive browser
// and the static list command share the same presentation.
//
// # Helpers
//
//   - [RelativeTime]: compact "3h ago" style timestamps
//   - [DiskSize]: disk usage reported in KiB rendered as KB/MB/GB
//   - [CompactCount]: star and fork counts rendered as "1.2k"
//
// Widths are kept short because columns compete for space in narrow
// terminals.
package format
