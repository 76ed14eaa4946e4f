// Package config handles loading and validation of ghm configuration.
//
// Configuration is read from ~/.config/ghm/config.toml with environment
// variable overrides for the data directory.
//
// # Configuration Sources (highest priority first)
//
//   - GHM_DATA_DIR env var: Directory for the repository cache files
//   - Config file settings
//   - Default values
//
// # Key Settings
//
//   - page_size: repositories fetched per page (default: 50)
//   - default_sort / default_direction: initial sort order of the list
//   - visibility: initial visibility filter ("", "public", or "private")
//   - fork_tracking: fetch commits-behind counts for forks
//
// # Cache Settings
//
// The [cache] section tunes freshness and the on-disk repository cache:
//
//	[cache]
//	list_ttl = "30m"
//	search_ttl = "90s"
//	max_bytes = 2097152
//
// A missing config file is not an error; defaults apply. An invalid file
// fails loudly rather than silently running with surprising settings.
package config
